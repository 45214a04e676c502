// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//
// Все сервисы используют единый формат логирования. Prometheus метрики
// живут рядом с кодом, который их пишет (internal/compare, cmd/*), и
// экспортируются на /metrics endpoint.
package telemetry
