package compare

import (
	"log/slog"
	"sort"

	"github.com/shaiso/Flowlab/internal/executor"
)

// ErrorAnswer — ответ-заглушка при нераспознанной форме результата.
// Подставляется вместо ответа версии, не роняя сравнение целиком.
const ErrorAnswer = "flow exec error"

// Normalize приводит ответ движка для пары (версия, вопрос) к одному значению.
//
// Правила в порядке приоритета:
//  1. KindValues — из записи "result" берётся первое значение;
//  2. KindSession — первое значение фасета result;
//  3. иначе форма не распознана: ошибка логируется с идентификатором
//     версии и сырым ответом, подставляется ErrorAnswer.
func Normalize(logger *slog.Logger, versionID int64, result *executor.Result) any {
	switch result.Kind {
	case executor.KindValues:
		if outputs, ok := result.Values["result"].(map[string]any); ok {
			if answer, ok := firstValue(outputs); ok {
				return answer
			}
		}
	case executor.KindSession:
		if answer, ok := firstValue(result.Outputs); ok {
			return answer
		}
	}

	logger.Error("unrecognized engine result shape",
		"version_id", versionID,
		"result", string(result.Raw),
	)
	return ErrorAnswer
}

// firstValue возвращает первое значение отображения.
//
// JSON-отображение в Go не сохраняет порядок документа, поэтому "первое"
// определяется по возрастанию ключей — детерминированно для вызывающих.
// На практике отображение содержит единственный выходной ключ.
func firstValue(m map[string]any) (any, bool) {
	if len(m) == 0 {
		return nil, false
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return m[keys[0]], true
}
