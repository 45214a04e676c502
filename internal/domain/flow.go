package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FlowStatus — статус жизненного цикла flow.
//
// DRAFT — flow в разработке, версии можно свободно редактировать.
// ONLINE — flow опубликован: правка текущей версии и переключение
// версий заблокированы.
type FlowStatus string

const (
	FlowStatusDraft  FlowStatus = "DRAFT"
	FlowStatusOnline FlowStatus = "ONLINE"
)

// IsOnline возвращает true, если flow опубликован.
func (s FlowStatus) IsOnline() bool {
	return s == FlowStatusOnline
}

// Flow — определение рабочего процесса.
//
// Flow — это именованный граф вычислений, принадлежащий пользователю.
// Один flow может иметь множество версий (FlowVersion), ровно одна из
// которых помечена как текущая и используется при боевом выполнении.
type Flow struct {
	// ID — уникальный идентификатор flow.
	ID uuid.UUID `json:"id"`

	// Name — имя flow.
	Name string `json:"name"`

	// Description — описание назначения flow.
	Description string `json:"description,omitempty"`

	// UserID — владелец flow.
	UserID uuid.UUID `json:"user_id"`

	// Status — статус жизненного цикла (DRAFT/ONLINE).
	Status FlowStatus `json:"status"`

	// CreatedAt — время создания flow.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time `json:"updated_at"`
}

// FlowVersion — именованный снимок графа flow.
//
// Версионирование позволяет:
// - Отслеживать историю изменений графа
// - Откатываться к предыдущим версиям
// - Сравнивать поведение узлов между версиями
type FlowVersion struct {
	// ID — уникальный числовой идентификатор версии.
	ID int64 `json:"id"`

	// FlowID — ссылка на родительский flow.
	FlowID uuid.UUID `json:"flow_id"`

	// Name — имя версии, уникальное в рамках flow.
	Name string `json:"name"`

	// Description — описание версии.
	Description string `json:"description,omitempty"`

	// Data — сериализованный граф. Непрозрачный payload,
	// который потребляет движок выполнения графов.
	Data json.RawMessage `json:"data,omitempty"`

	// IsCurrent — флаг текущей версии. Ровно одна версия flow
	// помечена как текущая в любой момент времени.
	IsCurrent bool `json:"is_current"`

	// UserID — автор версии.
	UserID uuid.UUID `json:"user_id"`

	// CreatedAt — время создания версии.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time `json:"updated_at"`
}
