// Package cli реализует инструмент командной строки Flowlab.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Flowlab API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для управления flows, их версиями и для сравнения
// выходов узла между версиями.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Flowlab API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок. Пользователь передаётся заголовком X-User-ID.
//
//	client := cli.NewClient("http://localhost:8080", userID)
//	flows, err := client.ListFlows(cli.ListFlowsOpts{})
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: flowlab flow list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - flow: list, create, show, versions
//   - version: show, create, update, delete, set-current
//   - compare
//
// Каждая группа создаётся через фабричную функцию (NewFlowCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
