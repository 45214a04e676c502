package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaiso/Flowlab/internal/compare"
)

// CompareVersions сравнивает выход узла между версиями flow для пачки
// тестовых вопросов. Ответ — массив слотов по порядку вопросов, в каждом
// слоте ответы по версиям.
// POST /api/v1/flows/compare
func (h *Handler) CompareVersions(w http.ResponseWriter, r *http.Request) {
	var req compare.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	answers, err := h.comparer.Compare(r.Context(), &req)
	if HandleServiceError(w, h.logger, err) {
		return
	}

	Success(w, answers)
}
