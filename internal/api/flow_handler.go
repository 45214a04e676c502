package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/shaiso/Flowlab/internal/domain"
	"github.com/shaiso/Flowlab/internal/version"
)

// ListFlows возвращает flows, видимые вызывающему.
// GET /api/v1/flows
func (h *Handler) ListFlows(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		Unauthenticated(w, "no caller in context")
		return
	}

	q := version.ListFlowsQuery{
		Name: r.URL.Query().Get("name"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.FlowStatus(raw)
		if status != domain.FlowStatusDraft && status != domain.FlowStatusOnline {
			BadRequest(w, "invalid status filter")
			return
		}
		q.Status = &status
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			BadRequest(w, "invalid page")
			return
		}
		q.Page = page
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			BadRequest(w, "invalid page_size")
			return
		}
		q.PageSize = size
	}

	list, err := h.manager.ListFlows(r.Context(), callerID, q)
	if HandleServiceError(w, h.logger, err) {
		return
	}

	result := make([]FlowSummaryResponse, len(list.Items))
	for i, item := range list.Items {
		result[i] = FlowSummaryFromDomain(item)
	}

	List(w, result, list.Total)
}

// CreateFlow создаёт новый flow с первичной версией.
// POST /api/v1/flows
func (h *Handler) CreateFlow(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		Unauthenticated(w, "no caller in context")
		return
	}

	var req CreateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	flow, err := h.manager.CreateFlow(r.Context(), callerID, req.Name, req.Description, req.Data)
	if HandleServiceError(w, h.logger, err) {
		return
	}

	Created(w, FlowFromDomain(*flow))
}

// GetFlow возвращает flow по ID.
// GET /api/v1/flows/{id}
func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid flow id")
		return
	}

	flow, err := h.manager.GetFlow(r.Context(), id)
	if HandleServiceError(w, h.logger, err) {
		return
	}

	Success(w, FlowFromDomain(*flow))
}
