package compare

import (
	"strings"

	"github.com/shaiso/Flowlab/internal/executor"
)

// fileInputMarker — маркер узла загрузки файла в идентификаторе узла.
// Для таких узлов значение переопределения дополнительно трактуется
// как путь к файлу.
const fileInputMarker = "InputFile"

// NodeOverride — переопределение входа одного узла из запроса сравнения.
type NodeOverride struct {
	// NodeID — логический идентификатор узла (поле nodeId записи).
	NodeID string `json:"nodeId"`

	// Value — новое значение входа.
	Value any `json:"value"`
}

// ParseOverrides извлекает переопределения из поля "data" шаблона входов.
// Поле приходит как []any после разбора JSON; записи без nodeId пропускаются.
func ParseOverrides(raw any) []NodeOverride {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	overrides := make([]NodeOverride, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		nodeID, _ := record["nodeId"].(string)
		if nodeID == "" {
			continue
		}
		overrides = append(overrides, NodeOverride{
			NodeID: nodeID,
			Value:  record["value"],
		})
	}
	return overrides
}

// BuildTweaks строит tweaks из переопределений узлов.
//
// Ключ tweaks — идентификатор узла из nodeId. Узлы загрузки файлов
// получают параметр file_path со значением переопределения в дополнение
// к value: узел разрешает конкретный путь, а не встроенное значение.
//
// Tweaks привязаны к логическим идентификаторам узлов, поэтому один и
// тот же набор переиспользуется для всех версий в рамках задачи вопроса.
func BuildTweaks(overrides []NodeOverride) executor.Tweaks {
	if len(overrides) == 0 {
		return nil
	}

	tweaks := make(executor.Tweaks, len(overrides))
	for _, o := range overrides {
		params := map[string]any{
			"id":    o.NodeID,
			"value": o.Value,
		}
		if strings.Contains(o.NodeID, fileInputMarker) {
			params["file_path"] = o.Value
		}
		tweaks[o.NodeID] = params
	}
	return tweaks
}
