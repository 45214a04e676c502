// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий жизненного цикла версий
//
// Типы сообщений:
//   - version.created          — создана новая версия flow
//   - version.updated          — версия изменена
//   - version.deleted          — версия удалена
//   - version.current_changed  — переключена текущая версия flow
//
// События потребляют внешние системы: аудит изменений и движок
// выполнения графов (инвалидация кеша собранных графов).
package mq
