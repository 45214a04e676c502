package api

import (
	"log/slog"

	"github.com/shaiso/Flowlab/internal/compare"
	"github.com/shaiso/Flowlab/internal/version"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	manager  *version.Manager
	comparer *compare.Orchestrator
	logger   *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Manager  *version.Manager
	Comparer *compare.Orchestrator
	Logger   *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		manager:  cfg.Manager,
		comparer: cfg.Comparer,
		logger:   cfg.Logger,
	}
}
