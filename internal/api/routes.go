package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
		Auth(),
	)

	// Flows
	mux.Handle("GET /api/v1/flows", chain(http.HandlerFunc(h.ListFlows)))
	mux.Handle("POST /api/v1/flows", chain(http.HandlerFunc(h.CreateFlow)))
	mux.Handle("GET /api/v1/flows/{id}", chain(http.HandlerFunc(h.GetFlow)))

	// Flow Versions
	mux.Handle("GET /api/v1/flows/{id}/versions", chain(http.HandlerFunc(h.ListVersions)))
	mux.Handle("POST /api/v1/flows/{id}/versions", chain(http.HandlerFunc(h.CreateVersion)))
	mux.Handle("POST /api/v1/flows/{id}/versions/{versionId}/current", chain(http.HandlerFunc(h.SetCurrentVersion)))
	mux.Handle("GET /api/v1/versions/{id}", chain(http.HandlerFunc(h.GetVersion)))
	mux.Handle("PUT /api/v1/versions/{id}", chain(http.HandlerFunc(h.UpdateVersion)))
	mux.Handle("DELETE /api/v1/versions/{id}", chain(http.HandlerFunc(h.DeleteVersion)))

	// Compare
	mux.Handle("POST /api/v1/flows/compare", chain(http.HandlerFunc(h.CompareVersions)))
}
