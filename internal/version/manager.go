// Package version реализует жизненный цикл версий flow.
//
// Менеджер инкапсулирует инварианты версионирования поверх хранилища:
//   - у flow в любой момент ровно одна текущая версия;
//   - имя версии уникально в рамках flow;
//   - текущую версию нельзя удалить;
//   - у опубликованного (ONLINE) flow текущая версия и переключение
//     версий заблокированы для правок.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/Flowlab/internal/domain"
	"github.com/shaiso/Flowlab/internal/mq"
	"github.com/shaiso/Flowlab/internal/repo"
)

// initialVersionName — имя первичной версии, создаваемой вместе с flow.
const initialVersionName = "v0"

// FlowStore — хранилище flows (реализуется repo.FlowRepo).
type FlowStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flow, error)
	Create(ctx context.Context, flow *domain.Flow) error
	List(ctx context.Context, q repo.FlowListQuery) ([]domain.Flow, error)
	Count(ctx context.Context, q repo.FlowListQuery) (int, error)
}

// VersionStore — хранилище версий (реализуется repo.VersionRepo).
type VersionStore interface {
	GetByID(ctx context.Context, id int64) (*domain.FlowVersion, error)
	GetByName(ctx context.Context, flowID uuid.UUID, name string) (*domain.FlowVersion, error)
	ListByFlow(ctx context.Context, flowID uuid.UUID) ([]domain.FlowVersion, error)
	ListByFlowIDs(ctx context.Context, flowIDs []uuid.UUID) ([]domain.FlowVersion, error)
	Create(ctx context.Context, v *domain.FlowVersion) error
	Update(ctx context.Context, v *domain.FlowVersion) error
	Delete(ctx context.Context, id int64) error
	SetCurrent(ctx context.Context, flowID uuid.UUID, versionID int64) error
}

// UserDirectory — справочник пользователей (реализуется repo.UserRepo).
type UserDirectory interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

// AccessControl — проверка прав доступа (реализуется access.Service).
type AccessControl interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	AccessCheck(ctx context.Context, userID, ownerID, resourceID uuid.UUID, accessType domain.AccessType) (bool, error)
	GrantedFlowIDs(ctx context.Context, userID uuid.UUID, accessType domain.AccessType) ([]uuid.UUID, error)
}

// Manager — менеджер версий flow.
type Manager struct {
	flows    FlowStore
	versions VersionStore
	users    UserDirectory
	access   AccessControl
	events   *mq.Publisher // опционален; nil — события не публикуются
	logger   *slog.Logger
}

// Config — конфигурация Manager.
type Config struct {
	FlowStore    FlowStore
	VersionStore VersionStore
	Users        UserDirectory
	Access       AccessControl
	Events       *mq.Publisher
	Logger       *slog.Logger
}

// New создаёт новый Manager.
func New(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		flows:    cfg.FlowStore,
		versions: cfg.VersionStore,
		users:    cfg.Users,
		access:   cfg.Access,
		events:   cfg.Events,
		logger:   logger,
	}
}

// checkFlowWrite проверяет право записи пользователя в flow.
func (m *Manager) checkFlowWrite(ctx context.Context, callerID uuid.UUID, flow *domain.Flow) error {
	ok, err := m.access.AccessCheck(ctx, callerID, flow.UserID, flow.ID, domain.AccessFlowWrite)
	if err != nil {
		return fmt.Errorf("access check: %w", err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// publish отправляет событие жизненного цикла, не роняя операцию.
func (m *Manager) publish(fn func() error) {
	if m.events == nil {
		return
	}
	if err := fn(); err != nil {
		m.logger.Warn("publish version event failed", "error", err)
	}
}

// CreateFlow создаёт flow в статусе DRAFT вместе с первичной текущей
// версией — инвариант "ровно одна текущая версия" действует с рождения flow.
func (m *Manager) CreateFlow(ctx context.Context, callerID uuid.UUID, name, description string, data json.RawMessage) (*domain.Flow, error) {
	flow := &domain.Flow{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		UserID:      callerID,
		Status:      domain.FlowStatusDraft,
	}
	if err := m.flows.Create(ctx, flow); err != nil {
		return nil, fmt.Errorf("create flow: %w", err)
	}

	initial := &domain.FlowVersion{
		FlowID:    flow.ID,
		Name:      initialVersionName,
		Data:      data,
		IsCurrent: true,
		UserID:    callerID,
	}
	if err := m.versions.Create(ctx, initial); err != nil {
		return nil, fmt.Errorf("create initial version: %w", err)
	}

	m.publish(func() error {
		return m.events.PublishVersionCreated(ctx, initial)
	})
	return flow, nil
}

// GetFlow возвращает flow по ID.
func (m *Manager) GetFlow(ctx context.Context, flowID uuid.UUID) (*domain.Flow, error) {
	flow, err := m.flows.GetByID(ctx, flowID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flow: %w", err)
	}
	return flow, nil
}

// ListVersions возвращает версии flow, новые первыми.
func (m *Manager) ListVersions(ctx context.Context, flowID uuid.UUID) ([]domain.FlowVersion, error) {
	if _, err := m.GetFlow(ctx, flowID); err != nil {
		return nil, err
	}
	versions, err := m.versions.ListByFlow(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

// GetVersion возвращает версию по ID.
func (m *Manager) GetVersion(ctx context.Context, versionID int64) (*domain.FlowVersion, error) {
	v, err := m.versions.GetByID(ctx, versionID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

// DeleteVersion удаляет версию.
//
// Текущую версию удалить нельзя независимо от прав вызывающего.
func (m *Manager) DeleteVersion(ctx context.Context, callerID uuid.UUID, versionID int64) error {
	v, err := m.GetVersion(ctx, versionID)
	if err != nil {
		return err
	}

	flow, err := m.GetFlow(ctx, v.FlowID)
	if err != nil {
		return err
	}

	if err := m.checkFlowWrite(ctx, callerID, flow); err != nil {
		return err
	}

	if v.IsCurrent {
		return ErrCurrentVersionConflict
	}

	if err := m.versions.Delete(ctx, versionID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrVersionNotFound
		}
		return fmt.Errorf("delete version: %w", err)
	}

	m.publish(func() error {
		return m.events.PublishVersionDeleted(ctx, v.FlowID, versionID)
	})
	return nil
}

// SetCurrentVersion переключает текущую версию flow.
//
// Переключение на уже текущую версию — no-op с успешным результатом.
// Снятие и установка флага выполняются хранилищем в одной транзакции.
func (m *Manager) SetCurrentVersion(ctx context.Context, callerID uuid.UUID, flowID uuid.UUID, versionID int64) error {
	flow, err := m.GetFlow(ctx, flowID)
	if err != nil {
		return err
	}

	if err := m.checkFlowWrite(ctx, callerID, flow); err != nil {
		return err
	}

	// Опубликованный flow не переключает версии
	if flow.Status.IsOnline() {
		return ErrOnlineEditLocked
	}

	v, err := m.GetVersion(ctx, versionID)
	if err != nil {
		return err
	}
	if v.FlowID != flowID {
		return ErrVersionNotFound
	}
	if v.IsCurrent {
		return nil
	}

	if err := m.versions.SetCurrent(ctx, flowID, versionID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrVersionNotFound
		}
		return fmt.Errorf("set current version: %w", err)
	}

	m.publish(func() error {
		return m.events.PublishCurrentChanged(ctx, flowID, versionID)
	})
	return nil
}

// CreateVersion создаёт новую версию flow. Новая версия не текущая.
func (m *Manager) CreateVersion(ctx context.Context, callerID uuid.UUID, flowID uuid.UUID, name, description string, data json.RawMessage) (*domain.FlowVersion, error) {
	flow, err := m.GetFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}

	if err := m.checkFlowWrite(ctx, callerID, flow); err != nil {
		return nil, err
	}

	_, err = m.versions.GetByName(ctx, flowID, name)
	if err == nil {
		return nil, ErrNameExists
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("get version by name: %w", err)
	}

	v := &domain.FlowVersion{
		FlowID:      flowID,
		Name:        name,
		Description: description,
		Data:        data,
		UserID:      callerID,
	}
	if err := m.versions.Create(ctx, v); err != nil {
		// Гонка create-after-check закрывается ограничением уникальности
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, ErrNameExists
		}
		return nil, fmt.Errorf("create version: %w", err)
	}

	m.publish(func() error {
		return m.events.PublishVersionCreated(ctx, v)
	})
	return v, nil
}

// VersionUpdate — частичное обновление версии. nil-поля не меняются.
type VersionUpdate struct {
	Name        *string
	Description *string
	Data        json.RawMessage
}

// UpdateVersion обновляет поля версии.
//
// Текущая версия опубликованного flow не редактируется.
func (m *Manager) UpdateVersion(ctx context.Context, callerID uuid.UUID, versionID int64, upd VersionUpdate) (*domain.FlowVersion, error) {
	v, err := m.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	flow, err := m.GetFlow(ctx, v.FlowID)
	if err != nil {
		return nil, err
	}

	if err := m.checkFlowWrite(ctx, callerID, flow); err != nil {
		return nil, err
	}

	if v.IsCurrent && flow.Status.IsOnline() {
		return nil, ErrOnlineEditLocked
	}

	if upd.Name != nil && *upd.Name != "" {
		v.Name = *upd.Name
	}
	if upd.Description != nil && *upd.Description != "" {
		v.Description = *upd.Description
	}
	if len(upd.Data) > 0 {
		v.Data = upd.Data
	}

	if err := m.versions.Update(ctx, v); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("update version: %w", err)
	}

	m.publish(func() error {
		return m.events.PublishVersionUpdated(ctx, v)
	})
	return v, nil
}

// ListFlowsQuery — фильтры и пагинация списка flows.
type ListFlowsQuery struct {
	// Name — фильтр по подстроке имени.
	Name string

	// Status — фильтр по статусу (nil — без фильтра).
	Status *domain.FlowStatus

	// Page — номер страницы, начиная с 1.
	Page int

	// PageSize — размер страницы.
	PageSize int
}

// FlowSummary — flow в списочной выдаче: владелец, флаг записи для
// вызывающего и список версий.
type FlowSummary struct {
	domain.Flow

	// UserName — отображаемое имя владельца.
	UserName string `json:"user_name"`

	// Write — может ли вызывающий редактировать flow
	// (администратор или владелец).
	Write bool `json:"write"`

	// Versions — версии flow, новые первыми.
	Versions []domain.FlowVersion `json:"version_list"`
}

// FlowList — страница flows с общим количеством.
type FlowList struct {
	Items []FlowSummary `json:"data"`
	Total int           `json:"total"`
}

// ListFlows возвращает flows, видимые вызывающему.
//
// Администратор видит все flows; остальные — свои плюс выданные через
// гранты ролей. Total считается тем же предикатом, что и страница.
func (m *Manager) ListFlows(ctx context.Context, callerID uuid.UUID, q ListFlowsQuery) (*FlowList, error) {
	isAdmin, err := m.access.IsAdmin(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("is admin: %w", err)
	}

	var granted []uuid.UUID
	if !isAdmin {
		granted, err = m.access.GrantedFlowIDs(ctx, callerID, domain.AccessFlowRead)
		if err != nil {
			return nil, fmt.Errorf("granted flow ids: %w", err)
		}
	}

	lq := repo.FlowListQuery{
		UserID:     callerID,
		IsAdmin:    isAdmin,
		GrantedIDs: granted,
		Name:       q.Name,
		Status:     q.Status,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}

	flows, err := m.flows.List(ctx, lq)
	if err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	total, err := m.flows.Count(ctx, lq)
	if err != nil {
		return nil, fmt.Errorf("count flows: %w", err)
	}

	flowIDs := make([]uuid.UUID, len(flows))
	userIDs := make([]uuid.UUID, len(flows))
	for i, f := range flows {
		flowIDs[i] = f.ID
		userIDs[i] = f.UserID
	}

	users, err := m.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	userNames := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Name
	}

	versions, err := m.versions.ListByFlowIDs(ctx, flowIDs)
	if err != nil {
		return nil, fmt.Errorf("list versions by flows: %w", err)
	}
	byFlow := make(map[uuid.UUID][]domain.FlowVersion, len(flows))
	for _, v := range versions {
		byFlow[v.FlowID] = append(byFlow[v.FlowID], v)
	}

	items := make([]FlowSummary, len(flows))
	for i, f := range flows {
		name, ok := userNames[f.UserID]
		if !ok {
			name = f.UserID.String()
		}
		items[i] = FlowSummary{
			Flow:     f,
			UserName: name,
			Write:    isAdmin || f.UserID == callerID,
			Versions: byFlow[f.ID],
		}
	}

	return &FlowList{Items: items, Total: total}, nil
}
