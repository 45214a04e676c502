// Package executor определяет границу с внешним движком выполнения графов.
//
// Структура:
//   - executor.go  — контракты: Engine, Transformer, теговый Result
//   - client.go    — HTTP-клиент движка
//   - transform.go — встраивание tweaks в данные графа перед выполнением
package executor

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Tweaks — переопределения параметров узлов, ключ — идентификатор узла.
// Применяются к данным графа перед выполнением.
type Tweaks map[string]map[string]any

// Request — запрос на выполнение графа.
type Request struct {
	// GraphData — сериализованный граф (данные версии после применения tweaks).
	GraphData json.RawMessage `json:"graph_data"`

	// Inputs — входные значения графа.
	Inputs map[string]any `json:"inputs"`

	// SessionID — идентификатор сессии. Пустая строка — выполнение без сессии.
	SessionID string `json:"session_id,omitempty"`

	// HistoryCount — размер окна истории диалога.
	HistoryCount int `json:"history_count"`

	// FlowID — идентификатор flow (ключ кеширования на стороне движка).
	FlowID uuid.UUID `json:"flow_id"`
}

// Kind — распознанная форма ответа движка.
//
// Форма разрешается один раз на границе (клиентом движка), дальше код
// работает с теговым вариантом, а не с динамическим прощупыванием.
type Kind int

const (
	// KindUnknown — форма не распознана; полезной нагрузки нет, только Raw.
	KindUnknown Kind = iota

	// KindValues — ответ целиком является отображением с записью "result".
	KindValues

	// KindSession — ответ несёт фасеты result и session_id.
	KindSession
)

// Result — ответ движка, приведённый к теговому варианту.
type Result struct {
	// Kind — распознанная форма ответа.
	Kind Kind

	// Values — исходное отображение (заполнено при KindValues).
	Values map[string]any

	// Outputs — фасет result (заполнен при KindSession).
	Outputs map[string]any

	// SessionID — фасет session_id (заполнен при KindSession).
	SessionID string

	// Raw — исходное тело ответа, для логов при KindUnknown.
	Raw json.RawMessage
}

// Engine — движок выполнения графов.
type Engine interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}

// Transformer — шаг встраивания tweaks в данные графа.
type Transformer interface {
	Apply(graphData json.RawMessage, tweaks Tweaks) (json.RawMessage, error)
}
