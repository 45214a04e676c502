package executor

import (
	"encoding/json"
	"fmt"
)

// GraphTransformer встраивает tweaks в сериализованный граф.
//
// Граф имеет форму {"data": {"nodes": [...], "edges": [...]}}.
// Для каждого узла, чей id есть в tweaks, значения параметров
// подставляются в поля шаблона узла: data.node.template.<param>.value.
// Параметры без соответствующего поля шаблона игнорируются.
type GraphTransformer struct{}

// NewGraphTransformer создаёт GraphTransformer.
func NewGraphTransformer() *GraphTransformer {
	return &GraphTransformer{}
}

// Apply возвращает копию графа с применёнными tweaks.
// Пустые tweaks возвращают исходные данные без копирования.
func (t *GraphTransformer) Apply(graphData json.RawMessage, tweaks Tweaks) (json.RawMessage, error) {
	if len(tweaks) == 0 {
		return graphData, nil
	}

	var graph map[string]any
	if err := json.Unmarshal(graphData, &graph); err != nil {
		return nil, fmt.Errorf("unmarshal graph data: %w", err)
	}

	data, _ := graph["data"].(map[string]any)
	nodes, _ := data["nodes"].([]any)
	for _, n := range nodes {
		node, ok := n.(map[string]any)
		if !ok {
			continue
		}
		nodeID, _ := node["id"].(string)
		params, ok := tweaks[nodeID]
		if !ok {
			continue
		}
		applyNodeParams(node, params)
	}

	patched, err := json.Marshal(graph)
	if err != nil {
		return nil, fmt.Errorf("marshal graph data: %w", err)
	}
	return patched, nil
}

// applyNodeParams подставляет параметры в шаблон узла.
func applyNodeParams(node map[string]any, params map[string]any) {
	nodeData, _ := node["data"].(map[string]any)
	inner, _ := nodeData["node"].(map[string]any)
	template, _ := inner["template"].(map[string]any)
	if template == nil {
		return
	}

	for key, value := range params {
		// "id" — служебный ключ tweaks, не параметр узла
		if key == "id" {
			continue
		}
		field, ok := template[key].(map[string]any)
		if !ok {
			continue
		}
		field["value"] = value
	}
}
