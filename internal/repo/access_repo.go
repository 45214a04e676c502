package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Flowlab/internal/domain"
)

// AccessRepo — репозиторий для ролей пользователей и грантов доступа.
type AccessRepo struct {
	pool *pgxpool.Pool
}

// NewAccessRepo создаёт новый AccessRepo.
func NewAccessRepo(pool *pgxpool.Pool) *AccessRepo {
	return &AccessRepo{pool: pool}
}

// ListUserRoles возвращает роли пользователя.
func (r *AccessRepo) ListUserRoles(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role_id
		FROM user_roles
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	defer rows.Close()

	var roleIDs []int64
	for rows.Next() {
		var roleID int64
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("scan role id: %w", err)
		}
		roleIDs = append(roleIDs, roleID)
	}
	return roleIDs, rows.Err()
}

// ListRoleAccess возвращает гранты доступа указанного типа для набора ролей.
func (r *AccessRepo) ListRoleAccess(ctx context.Context, roleIDs []int64, accessType domain.AccessType) ([]domain.RoleAccess, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT role_id, resource_id, access_type
		FROM role_access
		WHERE role_id = ANY($1) AND access_type = $2
	`, roleIDs, accessType)
	if err != nil {
		return nil, fmt.Errorf("list role access: %w", err)
	}
	defer rows.Close()

	var grants []domain.RoleAccess
	for rows.Next() {
		var g domain.RoleAccess
		if err := rows.Scan(&g.RoleID, &g.ResourceID, &g.Type); err != nil {
			return nil, fmt.Errorf("scan role access: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
