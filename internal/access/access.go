// Package access реализует проверку прав доступа к flows.
//
// Модель доступа:
//   - владелец ресурса имеет полный доступ;
//   - администратор (роль AdminRoleID) имеет полный доступ ко всему;
//   - остальные получают доступ через гранты ролей (role_access).
package access

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shaiso/Flowlab/internal/domain"
)

// RoleStore — доступ к ролям и грантам (реализуется repo.AccessRepo).
type RoleStore interface {
	ListUserRoles(ctx context.Context, userID uuid.UUID) ([]int64, error)
	ListRoleAccess(ctx context.Context, roleIDs []int64, accessType domain.AccessType) ([]domain.RoleAccess, error)
}

// Service — сервис проверки прав доступа.
type Service struct {
	roles RoleStore
}

// NewService создаёт новый Service.
func NewService(roles RoleStore) *Service {
	return &Service{roles: roles}
}

// IsAdmin возвращает true, если у пользователя есть роль администратора.
func (s *Service) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	roleIDs, err := s.roles.ListUserRoles(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list user roles: %w", err)
	}
	return slices.Contains(roleIDs, domain.AdminRoleID), nil
}

// AccessCheck проверяет доступ пользователя к ресурсу.
//
// Порядок проверки: владелец → администратор → гранты ролей.
func (s *Service) AccessCheck(ctx context.Context, userID, ownerID, resourceID uuid.UUID, accessType domain.AccessType) (bool, error) {
	if userID == ownerID {
		return true, nil
	}

	roleIDs, err := s.roles.ListUserRoles(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list user roles: %w", err)
	}
	if slices.Contains(roleIDs, domain.AdminRoleID) {
		return true, nil
	}

	grants, err := s.roles.ListRoleAccess(ctx, roleIDs, accessType)
	if err != nil {
		return false, fmt.Errorf("list role access: %w", err)
	}
	for _, g := range grants {
		if g.ResourceID == resourceID {
			return true, nil
		}
	}
	return false, nil
}

// GrantedFlowIDs возвращает flows, выданные пользователю через гранты ролей.
// Используется для построения предиката видимости в списочных выдачах.
func (s *Service) GrantedFlowIDs(ctx context.Context, userID uuid.UUID, accessType domain.AccessType) ([]uuid.UUID, error) {
	roleIDs, err := s.roles.ListUserRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}

	grants, err := s.roles.ListRoleAccess(ctx, roleIDs, accessType)
	if err != nil {
		return nil, fmt.Errorf("list role access: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(grants))
	for _, g := range grants {
		if !slices.Contains(ids, g.ResourceID) {
			ids = append(ids, g.ResourceID)
		}
	}
	return ids, nil
}
