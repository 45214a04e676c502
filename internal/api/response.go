package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shaiso/Flowlab/internal/compare"
	"github.com/shaiso/Flowlab/internal/version"
)

// ErrorCode — код ошибки API.
type ErrorCode string

const (
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeOnlineLocked    ErrorCode = "ONLINE_EDIT_LOCKED"
	ErrCodeCurrentConflict ErrorCode = "CURRENT_VERSION_CONFLICT"
	ErrCodeNameExists      ErrorCode = "NAME_EXISTS"
	ErrCodeCompareFailed   ErrorCode = "COMPARE_FAILED"
	ErrCodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse — структура ответа с ошибкой.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail — детали ошибки.
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// DataResponse — структура успешного ответа.
type DataResponse struct {
	Data any `json:"data"`
}

// ListResponse — структура ответа со списком.
type ListResponse struct {
	Data  any `json:"data"`
	Total int `json:"total,omitempty"`
}

// JSON отправляет JSON ответ.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Success отправляет успешный ответ с данными.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, DataResponse{Data: data})
}

// Created отправляет ответ о создании ресурса.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, DataResponse{Data: data})
}

// NoContent отправляет ответ без тела (204).
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// List отправляет ответ со списком.
func List(w http.ResponseWriter, data any, total int) {
	JSON(w, http.StatusOK, ListResponse{Data: data, Total: total})
}

// Error отправляет ответ с ошибкой.
func Error(w http.ResponseWriter, status int, code ErrorCode, message string) {
	JSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// BadRequest отправляет ошибку 400.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// Unauthenticated отправляет ошибку 401.
func Unauthenticated(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, ErrCodeUnauthenticated, message)
}

// Forbidden отправляет ошибку 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, ErrCodeUnauthorized, message)
}

// NotFound отправляет ошибку 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError отправляет ошибку 500.
func InternalError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}

// HandleServiceError преобразует типизированную ошибку менеджера версий
// или оркестратора сравнений в HTTP ответ. Возвращает true, если ответ
// отправлен.
func HandleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, version.ErrFlowNotFound),
		errors.Is(err, version.ErrVersionNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, version.ErrUnauthorized):
		Forbidden(w, err.Error())
	case errors.Is(err, version.ErrNameExists):
		Error(w, http.StatusConflict, ErrCodeNameExists, err.Error())
	case errors.Is(err, version.ErrCurrentVersionConflict):
		Error(w, http.StatusConflict, ErrCodeCurrentConflict, err.Error())
	case errors.Is(err, version.ErrOnlineEditLocked):
		Error(w, http.StatusUnprocessableEntity, ErrCodeOnlineLocked, err.Error())
	case errors.Is(err, compare.ErrComparisonFailed):
		// Сбой хотя бы одного вопроса проваливает весь batch
		logger.Error("comparison failed", "error", err)
		Error(w, http.StatusInternalServerError, ErrCodeCompareFailed, err.Error())
	default:
		InternalError(w, logger, err)
	}
	return true
}
