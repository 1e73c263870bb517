package service

import "errors"

// Таксономия ошибок прикладного слоя. Хэндлеры отображают их в HTTP-коды
// через errors.Is; ни одна из них не фатальна для процесса.
var (
	// ErrValidation - обязательное поле пустое или значение вне перечисления.
	// Возвращается до какого-либо обращения к хранилищу.
	ErrValidation = errors.New("validation failed")

	// ErrAuthRequired - операция требует активной сессии.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInvalidCredentials - неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken - учетная запись с таким email уже существует.
	ErrEmailTaken = errors.New("email already taken")

	// ErrNotFound - запрошенная запись отсутствует. Для профиля вызывающая
	// сторона трактует это как "профиль еще не заведен" и показывает значения
	// по умолчанию.
	ErrNotFound = errors.New("not found")
)
