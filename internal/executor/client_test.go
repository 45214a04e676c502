package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestResolveResult(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Kind
	}{
		{
			name: "values form",
			body: `{"result": {"answer": "42"}}`,
			want: KindValues,
		},
		{
			name: "session form",
			body: `{"result": {"answer": "42"}, "session_id": "abc"}`,
			want: KindSession,
		},
		{
			name: "session form with non-object result",
			body: `{"result": "plain", "session_id": "abc"}`,
			want: KindUnknown,
		},
		{
			name: "no result entry",
			body: `{"answer": "42"}`,
			want: KindUnknown,
		},
		{
			name: "not an object",
			body: `["a", "b"]`,
			want: KindUnknown,
		},
		{
			name: "invalid json",
			body: `{broken`,
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveResult([]byte(tt.body))
			if got.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.want)
			}
		})
	}
}

func TestResolveResult_SessionFacets(t *testing.T) {
	got := ResolveResult([]byte(`{"result": {"answer": "ok"}, "session_id": "s-1"}`))

	if got.Kind != KindSession {
		t.Fatalf("Kind = %v, want KindSession", got.Kind)
	}
	if got.SessionID != "s-1" {
		t.Errorf("SessionID = %q, want s-1", got.SessionID)
	}
	if got.Outputs["answer"] != "ok" {
		t.Errorf("Outputs[answer] = %v, want ok", got.Outputs["answer"])
	}
}

func TestHTTPEngine_Execute(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": {"answer": "42"}}`))
	}))
	defer server.Close()

	engine := NewHTTPEngine(server.URL)
	result, err := engine.Execute(context.Background(), Request{
		GraphData:    []byte(`{}`),
		Inputs:       map[string]any{"query": "q1"},
		HistoryCount: 10,
		FlowID:       uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/v1/process" {
		t.Errorf("path = %q, want /api/v1/process", gotPath)
	}
	if result.Kind != KindValues {
		t.Errorf("Kind = %v, want KindValues", result.Kind)
	}
}

func TestHTTPEngine_Execute_EngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "graph build failed", http.StatusInternalServerError)
	}))
	defer server.Close()

	engine := NewHTTPEngine(server.URL)
	_, err := engine.Execute(context.Background(), Request{GraphData: []byte(`{}`)})
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}
