package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/shaiso/Flowlab/internal/version"
)

// ListVersions возвращает версии flow, новые первыми.
// GET /api/v1/flows/{id}/versions
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	flowID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid flow id")
		return
	}

	versions, err := h.manager.ListVersions(r.Context(), flowID)
	if HandleServiceError(w, h.logger, err) {
		return
	}

	result := make([]VersionResponse, len(versions))
	for i, v := range versions {
		result[i] = VersionFromDomain(v)
	}

	List(w, result, len(result))
}

// CreateVersion создаёт новую версию flow.
// POST /api/v1/flows/{id}/versions
func (h *Handler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		Unauthenticated(w, "no caller in context")
		return
	}

	flowID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid flow id")
		return
	}

	var req CreateVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	v, err := h.manager.CreateVersion(r.Context(), callerID, flowID, req.Name, req.Description, req.Data)
	if HandleServiceError(w, h.logger, err) {
		return
	}

	Created(w, VersionFromDomain(*v))
}

// SetCurrentVersion переключает текущую версию flow.
// POST /api/v1/flows/{id}/versions/{versionId}/current
func (h *Handler) SetCurrentVersion(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		Unauthenticated(w, "no caller in context")
		return
	}

	flowID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid flow id")
		return
	}

	versionID, err := strconv.ParseInt(r.PathValue("versionId"), 10, 64)
	if err != nil {
		BadRequest(w, "invalid version id")
		return
	}

	err = h.manager.SetCurrentVersion(r.Context(), callerID, flowID, versionID)
	if HandleServiceError(w, h.logger, err) {
		return
	}

	NoContent(w)
}

// GetVersion возвращает версию по ID.
// GET /api/v1/versions/{id}
func (h *Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	versionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		BadRequest(w, "invalid version id")
		return
	}

	v, err := h.manager.GetVersion(r.Context(), versionID)
	if HandleServiceError(w, h.logger, err) {
		return
	}

	Success(w, VersionFromDomain(*v))
}

// UpdateVersion обновляет поля версии.
// PUT /api/v1/versions/{id}
func (h *Handler) UpdateVersion(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		Unauthenticated(w, "no caller in context")
		return
	}

	versionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		BadRequest(w, "invalid version id")
		return
	}

	var req UpdateVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	v, err := h.manager.UpdateVersion(r.Context(), callerID, versionID, version.VersionUpdate{
		Name:        req.Name,
		Description: req.Description,
		Data:        req.Data,
	})
	if HandleServiceError(w, h.logger, err) {
		return
	}

	Success(w, VersionFromDomain(*v))
}

// DeleteVersion удаляет версию. Текущую версию удалить нельзя.
// DELETE /api/v1/versions/{id}
func (h *Handler) DeleteVersion(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		Unauthenticated(w, "no caller in context")
		return
	}

	versionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		BadRequest(w, "invalid version id")
		return
	}

	err = h.manager.DeleteVersion(r.Context(), callerID, versionID)
	if HandleServiceError(w, h.logger, err) {
		return
	}

	NoContent(w)
}
