package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Flowlab/internal/domain"
)

// FlowRepo — репозиторий для работы с flows.
type FlowRepo struct {
	pool *pgxpool.Pool
}

// NewFlowRepo создаёт новый FlowRepo.
func NewFlowRepo(pool *pgxpool.Pool) *FlowRepo {
	return &FlowRepo{pool: pool}
}

// FlowListQuery — фильтры и пагинация для выборки flows.
//
// Предикат видимости: администратор видит все flows, остальные — свои
// плюс выданные через гранты (GrantedIDs). List и Count обязаны
// использовать один и тот же предикат, иначе total разойдётся со страницей.
type FlowListQuery struct {
	// UserID — пользователь, от имени которого строится выборка.
	UserID uuid.UUID

	// IsAdmin — пользователь является администратором (видит всё).
	IsAdmin bool

	// GrantedIDs — flows, доступные через role_access.
	GrantedIDs []uuid.UUID

	// Name — фильтр по подстроке имени (пусто — без фильтра).
	Name string

	// Status — фильтр по статусу (nil — без фильтра).
	Status *domain.FlowStatus

	// Page — номер страницы, начиная с 1.
	Page int

	// PageSize — размер страницы.
	PageSize int
}

// where строит общий для List/Count предикат и аргументы.
func (q FlowListQuery) where() (string, []any) {
	clause := `WHERE 1=1`
	args := []any{}

	if !q.IsAdmin {
		args = append(args, q.UserID, q.GrantedIDs)
		clause += fmt.Sprintf(` AND (user_id = $%d OR id = ANY($%d))`, len(args)-1, len(args))
	}
	if q.Name != "" {
		args = append(args, "%"+q.Name+"%")
		clause += fmt.Sprintf(` AND name ILIKE $%d`, len(args))
	}
	if q.Status != nil {
		args = append(args, *q.Status)
		clause += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	return clause, args
}

// Create создаёт новый flow.
func (r *FlowRepo) Create(ctx context.Context, flow *domain.Flow) error {
	query := `
		INSERT INTO flows (id, name, description, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		flow.ID,
		flow.Name,
		flow.Description,
		flow.UserID,
		flow.Status,
	).Scan(&flow.CreatedAt, &flow.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert flow: %w", err)
	}
	return nil
}

// GetByID возвращает flow по ID.
func (r *FlowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flow, error) {
	query := `
		SELECT id, name, description, user_id, status, created_at, updated_at
		FROM flows
		WHERE id = $1
	`
	var flow domain.Flow
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&flow.ID,
		&flow.Name,
		&flow.Description,
		&flow.UserID,
		&flow.Status,
		&flow.CreatedAt,
		&flow.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flow by id: %w", err)
	}
	return &flow, nil
}

// List возвращает страницу flows по фильтрам запроса.
func (r *FlowRepo) List(ctx context.Context, q FlowListQuery) ([]domain.Flow, error) {
	clause, args := q.where()

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`
		SELECT id, name, description, user_id, status, created_at, updated_at
		FROM flows
		%s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	defer rows.Close()

	var flows []domain.Flow
	for rows.Next() {
		var flow domain.Flow
		if err := rows.Scan(
			&flow.ID,
			&flow.Name,
			&flow.Description,
			&flow.UserID,
			&flow.Status,
			&flow.CreatedAt,
			&flow.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan flow: %w", err)
		}
		flows = append(flows, flow)
	}
	return flows, rows.Err()
}

// Count возвращает общее количество flows по тем же фильтрам, что и List.
func (r *FlowRepo) Count(ctx context.Context, q FlowListQuery) (int, error) {
	clause, args := q.where()

	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM flows %s`, clause)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count flows: %w", err)
	}
	return total, nil
}
