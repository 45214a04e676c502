package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Flowlab/internal/domain"
	"github.com/shaiso/Flowlab/internal/executor"
)

// Default configuration values.
const (
	// historyCount — фиксированное окно истории для вызовов движка.
	historyCount = 10

	// defaultMaxConcurrency — ограничение на число одновременных задач.
	defaultMaxConcurrency = 8
)

// Зарезервированные ключи шаблона входов: не участвуют в подстановке вопроса.
const (
	reservedKeyData = "data"
	reservedKeyID   = "id"
)

// ErrComparisonFailed — агрегированная ошибка сравнения.
// Оборачивает первопричину упавшей задачи; частичные результаты не отдаются.
var ErrComparisonFailed = errors.New("flow comparison failed")

// Request — запрос на сравнение узла между версиями.
type Request struct {
	// QuestionList — упорядоченный список тестовых вопросов.
	QuestionList []string `json:"question_list"`

	// VersionList — идентификаторы сравниваемых версий.
	VersionList []int64 `json:"version_list"`

	// NodeID — узел, чей выход сравнивается.
	NodeID string `json:"node_id"`

	// Inputs — шаблон входов графа. Необязательное поле "data" несёт
	// список переопределений узлов (см. NodeOverride).
	Inputs map[string]any `json:"inputs"`
}

// Answers — ответы одного вопроса: идентификатор версии → ответ.
type Answers map[int64]any

// VersionLookup — выборка версий по набору ID (реализуется repo.VersionRepo).
type VersionLookup interface {
	ListByIDs(ctx context.Context, ids []int64) ([]domain.FlowVersion, error)
}

// Orchestrator выполняет сравнение: раздаёт по задаче на вопрос,
// собирает ответы в массив, упорядоченный по вопросам.
type Orchestrator struct {
	versions       VersionLookup
	transformer    executor.Transformer
	engine         executor.Engine
	maxConcurrency int
	logger         *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Versions — выборка версий.
	Versions VersionLookup

	// Transformer — встраивание tweaks в граф.
	Transformer executor.Transformer

	// Engine — движок выполнения графов.
	Engine executor.Engine

	// MaxConcurrency — ограничение одновременных задач (default: 8).
	// Размер подбирается под ёмкость движка.
	MaxConcurrency int

	// Logger — логгер.
	Logger *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		versions:       cfg.Versions,
		transformer:    cfg.Transformer,
		engine:         cfg.Engine,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// Compare возвращает массив ответов, по слоту на вопрос из QuestionList.
// Слот i всегда соответствует вопросу i независимо от порядка завершения
// задач. Версии, отсутствующие в хранилище, молча выпадают из ответов.
//
// Пустой список вопросов или версий, либо пустой NodeID — сразу пустой
// результат без запуска задач.
//
// Первая упавшая задача прерывает сравнение целиком: контекст группы
// отменяется, задачи-соседи снимаются, наружу уходит одна ошибка
// ErrComparisonFailed с первопричиной.
func (o *Orchestrator) Compare(ctx context.Context, req *Request) ([]Answers, error) {
	if len(req.QuestionList) == 0 || len(req.VersionList) == 0 || req.NodeID == "" {
		return []Answers{}, nil
	}

	compareRequests.Inc()
	timer := prometheus.NewTimer(compareDuration)
	defer timer.ObserveDuration()

	// Версии выбираются один раз до раздачи и дальше только читаются
	versions, err := o.versions.ListByIDs(ctx, req.VersionList)
	if err != nil {
		compareFailures.Inc()
		return nil, fmt.Errorf("list versions: %w", err)
	}

	// Преаллоцированный массив: каждая задача пишет только в свой слот,
	// синхронизация доступа не нужна
	res := make([]Answers, len(req.QuestionList))
	for i := range res {
		res[i] = Answers{}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrency)

	for i, question := range req.QuestionList {
		g.Go(func() error {
			return o.execQuestion(ctx, req.Inputs, res, i, question, versions)
		})
	}

	if err := g.Wait(); err != nil {
		compareFailures.Inc()
		return nil, fmt.Errorf("%w: %w", ErrComparisonFailed, err)
	}
	return res, nil
}

// execQuestion — задача одного вопроса: подставляет вопрос во входы,
// строит tweaks и выполняет граф каждой версии.
func (o *Orchestrator) execQuestion(ctx context.Context, template map[string]any, res []Answers, index int, question string, versions []domain.FlowVersion) error {
	// Задачи не делят изменяемое состояние: у каждой своя копия шаблона
	inputs := maps.Clone(template)
	if inputs == nil {
		inputs = make(map[string]any)
	}

	// Вопрос подставляется в первый незарезервированный ключ входов.
	// Если такого ключа нет, текст вопроса для этой задачи опускается.
	for _, key := range sortedKeys(inputs) {
		if key == reservedKeyData || key == reservedKeyID {
			continue
		}
		inputs[key] = question
		break
	}

	var tweaks executor.Tweaks
	if raw, ok := inputs[reservedKeyData]; ok {
		delete(inputs, reservedKeyData)
		tweaks = BuildTweaks(ParseOverrides(raw))
	}

	answers := make(Answers, len(versions))
	for _, v := range versions {
		graph, err := o.transformer.Apply(v.Data, tweaks)
		if err != nil {
			return fmt.Errorf("apply tweaks to version %d: %w", v.ID, err)
		}

		result, err := o.engine.Execute(ctx, executor.Request{
			GraphData:    graph,
			Inputs:       inputs,
			HistoryCount: historyCount,
			FlowID:       v.FlowID,
		})
		if err != nil {
			engineCalls.WithLabelValues("error").Inc()
			return fmt.Errorf("execute version %d: %w", v.ID, err)
		}
		engineCalls.WithLabelValues("ok").Inc()

		answers[v.ID] = Normalize(o.logger, v.ID, result)
	}

	res[index] = answers
	return nil
}

// sortedKeys возвращает ключи отображения по возрастанию.
// Детерминированная замена порядку документа, который Go-отображение
// не сохраняет; вызывающие опираются на стабильный порядок ключей.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
