package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultEngineTimeout = 120 * time.Second

// HTTPEngine — HTTP-клиент движка выполнения графов.
//
// Движок — отдельный сервис: принимает сериализованный граф и входные
// значения, возвращает результат выполнения. Может дедуплицировать
// конкурентные вызовы по отпечатку (graph, inputs) — клиент на это
// не рассчитывает, но и не мешает.
type HTTPEngine struct {
	baseURL string
	client  *http.Client
}

// NewHTTPEngine создаёт клиент движка.
func NewHTTPEngine(baseURL string) *HTTPEngine {
	return &HTTPEngine{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultEngineTimeout},
	}
}

// Execute выполняет граф через HTTP API движка.
func (e *HTTPEngine) Execute(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal execute request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/v1/process", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create execute request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read engine response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("engine returned HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	return ResolveResult(respBody), nil
}

// ResolveResult разбирает тело ответа движка в теговый Result.
//
// Распознаваемые формы:
//   - {"result": {...}, "session_id": "..."} → KindSession
//   - {"result": {...}, ...}                 → KindValues
//
// Всё остальное — KindUnknown с сохранённым исходным телом.
func ResolveResult(body []byte) *Result {
	var probe map[string]any
	if err := json.Unmarshal(body, &probe); err != nil {
		return &Result{Kind: KindUnknown, Raw: body}
	}

	_, hasResult := probe["result"]
	sessionID, hasSession := probe["session_id"].(string)

	switch {
	case hasResult && hasSession:
		outputs, ok := probe["result"].(map[string]any)
		if !ok {
			return &Result{Kind: KindUnknown, Raw: body}
		}
		return &Result{Kind: KindSession, Outputs: outputs, SessionID: sessionID, Raw: body}
	case hasResult:
		return &Result{Kind: KindValues, Values: probe, Raw: body}
	default:
		return &Result{Kind: KindUnknown, Raw: body}
	}
}

// truncate обрезает строку до maxLen символов.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
