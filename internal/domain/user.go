package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminRoleID — идентификатор роли администратора.
// Пользователь с этой ролью видит все flows и может их редактировать.
const AdminRoleID int64 = 1

// AccessType — тип доступа к ресурсу.
type AccessType int

const (
	// AccessFlowRead — чтение flow (просмотр, сравнение версий).
	AccessFlowRead AccessType = 1

	// AccessFlowWrite — запись flow (создание/правка/удаление версий).
	AccessFlowWrite AccessType = 2
)

// User — пользователь системы.
type User struct {
	// ID — уникальный идентификатор пользователя.
	ID uuid.UUID `json:"id"`

	// Name — отображаемое имя пользователя.
	Name string `json:"name"`

	// CreatedAt — время регистрации.
	CreatedAt time.Time `json:"created_at"`
}

// RoleAccess — грант доступа роли к конкретному ресурсу.
//
// Пользователь получает доступ к чужому flow через роль:
// user → user_roles → role_access → flow.
type RoleAccess struct {
	// RoleID — роль, которой выдан грант.
	RoleID int64 `json:"role_id"`

	// ResourceID — идентификатор ресурса (flow).
	ResourceID uuid.UUID `json:"resource_id"`

	// Type — тип доступа.
	Type AccessType `json:"type"`
}
