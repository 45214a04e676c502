package compare

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shaiso/Flowlab/internal/executor"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		result *executor.Result
		want   any
	}{
		{
			name: "values form takes first result value",
			result: &executor.Result{
				Kind:   executor.KindValues,
				Values: map[string]any{"result": map[string]any{"a": "42"}},
			},
			want: "42",
		},
		{
			name: "values form with several keys takes first by key order",
			result: &executor.Result{
				Kind:   executor.KindValues,
				Values: map[string]any{"result": map[string]any{"b": "second", "a": "first"}},
			},
			want: "first",
		},
		{
			name: "session form takes first output",
			result: &executor.Result{
				Kind:      executor.KindSession,
				Outputs:   map[string]any{"answer": "ok"},
				SessionID: "s-1",
			},
			want: "ok",
		},
		{
			name:   "unknown shape yields sentinel",
			result: &executor.Result{Kind: executor.KindUnknown, Raw: []byte(`"boom"`)},
			want:   ErrorAnswer,
		},
		{
			name: "values form with non-map result yields sentinel",
			result: &executor.Result{
				Kind:   executor.KindValues,
				Values: map[string]any{"result": "plain string"},
			},
			want: ErrorAnswer,
		},
		{
			name: "empty result mapping yields sentinel",
			result: &executor.Result{
				Kind:   executor.KindValues,
				Values: map[string]any{"result": map[string]any{}},
			},
			want: ErrorAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(discardLogger(), 1, tt.result)
			if got != tt.want {
				t.Errorf("Normalize = %v, want %v", got, tt.want)
			}
		})
	}
}
