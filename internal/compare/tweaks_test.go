package compare

import (
	"testing"
)

func TestParseOverrides(t *testing.T) {
	raw := []any{
		map[string]any{"nodeId": "TextNode-a1", "value": "hello"},
		map[string]any{"value": "no node id"},
		"not a record",
		map[string]any{"nodeId": "InputFileNode-b2", "value": "/tmp/x.pdf"},
	}

	overrides := ParseOverrides(raw)
	if len(overrides) != 2 {
		t.Fatalf("expected 2 overrides, got %d", len(overrides))
	}
	if overrides[0].NodeID != "TextNode-a1" || overrides[0].Value != "hello" {
		t.Errorf("unexpected first override: %+v", overrides[0])
	}
	if overrides[1].NodeID != "InputFileNode-b2" {
		t.Errorf("unexpected second override: %+v", overrides[1])
	}
}

func TestParseOverrides_NotAList(t *testing.T) {
	if got := ParseOverrides(map[string]any{"nodeId": "x"}); got != nil {
		t.Errorf("expected nil for non-list input, got %v", got)
	}
	if got := ParseOverrides(nil); got != nil {
		t.Errorf("expected nil for nil input, got %v", got)
	}
}

func TestBuildTweaks(t *testing.T) {
	overrides := []NodeOverride{
		{NodeID: "TextNode-a1", Value: "hello"},
		{NodeID: "InputFileNode-b2", Value: "/tmp/x.pdf"},
	}

	tweaks := BuildTweaks(overrides)
	if len(tweaks) != 2 {
		t.Fatalf("expected 2 tweaks, got %d", len(tweaks))
	}

	text := tweaks["TextNode-a1"]
	if text["id"] != "TextNode-a1" || text["value"] != "hello" {
		t.Errorf("unexpected text node params: %v", text)
	}
	if _, ok := text["file_path"]; ok {
		t.Error("regular node must not get file_path")
	}

	// File-input nodes get file_path in addition to value
	file := tweaks["InputFileNode-b2"]
	if file["value"] != "/tmp/x.pdf" {
		t.Errorf("value = %v, want /tmp/x.pdf", file["value"])
	}
	if file["file_path"] != "/tmp/x.pdf" {
		t.Errorf("file_path = %v, want /tmp/x.pdf", file["file_path"])
	}
}

func TestBuildTweaks_Empty(t *testing.T) {
	if got := BuildTweaks(nil); got != nil {
		t.Errorf("expected nil tweaks, got %v", got)
	}
}
