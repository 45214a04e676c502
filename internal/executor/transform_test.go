package executor

import (
	"encoding/json"
	"testing"
)

const sampleGraph = `{
	"data": {
		"nodes": [
			{
				"id": "InputFileNode-x1",
				"data": {
					"node": {
						"template": {
							"value": {"value": ""},
							"file_path": {"value": ""}
						}
					}
				}
			},
			{
				"id": "LLMNode-y2",
				"data": {
					"node": {
						"template": {
							"temperature": {"value": 0.7}
						}
					}
				}
			}
		],
		"edges": []
	}
}`

func TestGraphTransformer_Apply(t *testing.T) {
	tweaks := Tweaks{
		"InputFileNode-x1": {
			"id":        "InputFileNode-x1",
			"value":     "/tmp/doc.pdf",
			"file_path": "/tmp/doc.pdf",
		},
	}

	patched, err := NewGraphTransformer().Apply([]byte(sampleGraph), tweaks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var graph map[string]any
	if err := json.Unmarshal(patched, &graph); err != nil {
		t.Fatalf("patched graph is not valid json: %v", err)
	}

	nodes := graph["data"].(map[string]any)["nodes"].([]any)
	tmpl := nodes[0].(map[string]any)["data"].(map[string]any)["node"].(map[string]any)["template"].(map[string]any)

	if got := tmpl["value"].(map[string]any)["value"]; got != "/tmp/doc.pdf" {
		t.Errorf("value = %v, want /tmp/doc.pdf", got)
	}
	if got := tmpl["file_path"].(map[string]any)["value"]; got != "/tmp/doc.pdf" {
		t.Errorf("file_path = %v, want /tmp/doc.pdf", got)
	}

	// Untouched node keeps its template values
	other := nodes[1].(map[string]any)["data"].(map[string]any)["node"].(map[string]any)["template"].(map[string]any)
	if got := other["temperature"].(map[string]any)["value"]; got != 0.7 {
		t.Errorf("temperature = %v, want 0.7", got)
	}
}

func TestGraphTransformer_Apply_EmptyTweaks(t *testing.T) {
	data := []byte(sampleGraph)
	patched, err := NewGraphTransformer().Apply(data, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(patched) != string(data) {
		t.Error("empty tweaks should return graph data unchanged")
	}
}

func TestGraphTransformer_Apply_UnknownParamIgnored(t *testing.T) {
	tweaks := Tweaks{
		"LLMNode-y2": {
			"id":          "LLMNode-y2",
			"nonexistent": "x",
		},
	}

	patched, err := NewGraphTransformer().Apply([]byte(sampleGraph), tweaks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var graph map[string]any
	if err := json.Unmarshal(patched, &graph); err != nil {
		t.Fatalf("patched graph is not valid json: %v", err)
	}
}

func TestGraphTransformer_Apply_InvalidGraph(t *testing.T) {
	_, err := NewGraphTransformer().Apply([]byte(`{broken`), Tweaks{"n": {"value": 1}})
	if err == nil {
		t.Fatal("expected error for invalid graph data")
	}
}
