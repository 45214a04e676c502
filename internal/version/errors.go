package version

import "errors"

// Ошибки менеджера версий. Все предусловия разрешаются локально и
// возвращаются типизированными ошибками — наружу они уходят кодами
// ответа API, а не необработанными сбоями.
var (
	// ErrFlowNotFound — flow не найден.
	ErrFlowNotFound = errors.New("flow not found")

	// ErrVersionNotFound — версия flow не найдена.
	ErrVersionNotFound = errors.New("flow version not found")

	// ErrUnauthorized — у пользователя нет нужного доступа к flow.
	ErrUnauthorized = errors.New("flow access denied")

	// ErrOnlineEditLocked — правка текущей версии или переключение
	// версий опубликованного (ONLINE) flow.
	ErrOnlineEditLocked = errors.New("flow is online, version editing is locked")

	// ErrCurrentVersionConflict — попытка удалить текущую версию.
	ErrCurrentVersionConflict = errors.New("cannot delete the current version")

	// ErrNameExists — имя версии уже занято в рамках flow.
	ErrNameExists = errors.New("version name already exists")
)
