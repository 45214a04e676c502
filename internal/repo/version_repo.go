package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Flowlab/internal/domain"
)

// VersionRepo — репозиторий для работы с flow_versions.
type VersionRepo struct {
	pool *pgxpool.Pool
}

// NewVersionRepo создаёт новый VersionRepo.
func NewVersionRepo(pool *pgxpool.Pool) *VersionRepo {
	return &VersionRepo{pool: pool}
}

const versionColumns = `id, flow_id, name, description, data, is_current, user_id, created_at, updated_at`

// scanVersion читает одну строку flow_versions.
func scanVersion(row pgx.Row) (*domain.FlowVersion, error) {
	var v domain.FlowVersion
	err := row.Scan(
		&v.ID,
		&v.FlowID,
		&v.Name,
		&v.Description,
		&v.Data,
		&v.IsCurrent,
		&v.UserID,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan flow version: %w", err)
	}
	return &v, nil
}

// GetByID возвращает версию по ID.
func (r *VersionRepo) GetByID(ctx context.Context, id int64) (*domain.FlowVersion, error) {
	query := fmt.Sprintf(`SELECT %s FROM flow_versions WHERE id = $1`, versionColumns)
	return scanVersion(r.pool.QueryRow(ctx, query, id))
}

// GetByName возвращает версию flow по имени.
func (r *VersionRepo) GetByName(ctx context.Context, flowID uuid.UUID, name string) (*domain.FlowVersion, error) {
	query := fmt.Sprintf(`SELECT %s FROM flow_versions WHERE flow_id = $1 AND name = $2`, versionColumns)
	return scanVersion(r.pool.QueryRow(ctx, query, flowID, name))
}

// ListByFlow возвращает все версии flow, новые первыми.
func (r *VersionRepo) ListByFlow(ctx context.Context, flowID uuid.UUID) ([]domain.FlowVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM flow_versions
		WHERE flow_id = $1
		ORDER BY id DESC
	`, versionColumns)
	return r.list(ctx, query, flowID)
}

// ListByIDs возвращает версии по набору ID.
// Отсутствующие в БД идентификаторы молча пропускаются.
func (r *VersionRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.FlowVersion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM flow_versions WHERE id = ANY($1) ORDER BY id`, versionColumns)
	return r.list(ctx, query, ids)
}

// ListByFlowIDs возвращает версии для набора flows (для списочных выдач).
func (r *VersionRepo) ListByFlowIDs(ctx context.Context, flowIDs []uuid.UUID) ([]domain.FlowVersion, error) {
	if len(flowIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM flow_versions WHERE flow_id = ANY($1) ORDER BY id DESC`, versionColumns)
	return r.list(ctx, query, flowIDs)
}

func (r *VersionRepo) list(ctx context.Context, query string, args ...any) ([]domain.FlowVersion, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list flow versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.FlowVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

// Create создаёт новую версию.
// Текущей (is_current=true) создаётся только первичная версия flow,
// остальные — всегда не текущими.
func (r *VersionRepo) Create(ctx context.Context, v *domain.FlowVersion) error {
	query := `
		INSERT INTO flow_versions (flow_id, name, description, data, is_current, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		v.FlowID,
		v.Name,
		v.Description,
		v.Data,
		v.IsCurrent,
		v.UserID,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		// 23505 — нарушение уникальности (flow_id, name)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert flow version: %w", err)
	}
	return nil
}

// Update обновляет имя, описание и данные версии.
func (r *VersionRepo) Update(ctx context.Context, v *domain.FlowVersion) error {
	query := `
		UPDATE flow_versions
		SET name = $2, description = $3, data = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, v.ID, v.Name, v.Description, v.Data).Scan(&v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update flow version: %w", err)
	}
	return nil
}

// Delete удаляет версию.
func (r *VersionRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM flow_versions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete flow version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCurrent атомарно переключает текущую версию flow.
//
// Снятие флага со старой версии и установка на новую выполняются в одной
// транзакции — инвариант "ровно одна текущая версия" сохраняется даже
// при конкурентных переключениях.
func (r *VersionRepo) SetCurrent(ctx context.Context, flowID uuid.UUID, versionID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE flow_versions
		SET is_current = false, updated_at = NOW()
		WHERE flow_id = $1 AND is_current
	`, flowID)
	if err != nil {
		return fmt.Errorf("unset current version: %w", err)
	}

	result, err := tx.Exec(ctx, `
		UPDATE flow_versions
		SET is_current = true, updated_at = NOW()
		WHERE id = $1 AND flow_id = $2
	`, versionID, flowID)
	if err != nil {
		return fmt.Errorf("set current version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
