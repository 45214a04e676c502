// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go         — Handler с DI (менеджер версий, оркестратор сравнений, logger)
//   - routes.go          — регистрация маршрутов
//   - middleware.go      — middleware (logging, recovery, auth)
//   - response.go        — унифицированные JSON-ответы и обработка ошибок
//   - dto.go             — Data Transfer Objects (request/response)
//   - flow_handler.go    — обработчики для /flows
//   - version_handler.go — обработчики для версий flow
//   - compare_handler.go — обработчик сравнения версий
//
// API предоставляет REST endpoints для управления flows, их версиями и
// для сравнения выходов узла между версиями.
package api
