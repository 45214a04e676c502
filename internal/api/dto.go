package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Flowlab/internal/domain"
	"github.com/shaiso/Flowlab/internal/version"
)

// Flow DTOs

// CreateFlowRequest — запрос на создание flow.
type CreateFlowRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// FlowResponse — ответ с flow.
type FlowResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	UserID      uuid.UUID         `json:"user_id"`
	Status      domain.FlowStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// FlowFromDomain конвертирует domain.Flow в FlowResponse.
func FlowFromDomain(f domain.Flow) FlowResponse {
	return FlowResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		UserID:      f.UserID,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// FlowSummaryResponse — flow в списочной выдаче: владелец, флаг записи
// для вызывающего и версии.
type FlowSummaryResponse struct {
	FlowResponse

	UserName string            `json:"user_name"`
	Write    bool              `json:"write"`
	Versions []VersionResponse `json:"version_list"`
}

// FlowSummaryFromDomain конвертирует version.FlowSummary в FlowSummaryResponse.
func FlowSummaryFromDomain(s version.FlowSummary) FlowSummaryResponse {
	versions := make([]VersionResponse, len(s.Versions))
	for i, v := range s.Versions {
		versions[i] = VersionFromDomain(v)
	}
	return FlowSummaryResponse{
		FlowResponse: FlowFromDomain(s.Flow),
		UserName:     s.UserName,
		Write:        s.Write,
		Versions:     versions,
	}
}

// FlowVersion DTOs

// CreateVersionRequest — запрос на создание версии flow.
type CreateVersionRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// UpdateVersionRequest — запрос на частичное обновление версии.
// Отсутствующие поля не меняются.
type UpdateVersionRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// VersionResponse — ответ с версией flow.
type VersionResponse struct {
	ID          int64           `json:"id"`
	FlowID      uuid.UUID       `json:"flow_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	IsCurrent   bool            `json:"is_current"`
	UserID      uuid.UUID       `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// VersionFromDomain конвертирует domain.FlowVersion в VersionResponse.
func VersionFromDomain(v domain.FlowVersion) VersionResponse {
	return VersionResponse{
		ID:          v.ID,
		FlowID:      v.FlowID,
		Name:        v.Name,
		Description: v.Description,
		Data:        v.Data,
		IsCurrent:   v.IsCurrent,
		UserID:      v.UserID,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
