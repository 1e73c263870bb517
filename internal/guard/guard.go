// Package guard содержит чистую функцию принятия решения о доступе к
// маршруту: состояние сессии и требуемый уровень доступа отображаются в
// решение "отрисовать" или "перенаправить". Сама навигация и HTTP-коды -
// забота вызывающего слоя (middleware).
package guard

// SessionState - состояние сессии на момент запроса.
type SessionState int

const (
	// Loading - проверка сессии еще не разрешилась (хранилище сессий
	// недоступно). Пока состояние неизвестно, редиректы запрещены.
	Loading SessionState = iota
	Unauthenticated
	Authenticated
)

// Capability - уровень доступа, требуемый маршрутом.
type Capability int

const (
	CapNone Capability = iota
	CapAuthenticated
	CapAdminOnly
)

// Пути перенаправления.
const (
	AuthPath = "/auth"
	HomePath = "/"
)

// Session - вход решающей функции: состояние плюс признак администратора
// (учитывается только в состоянии Authenticated).
type Session struct {
	State   SessionState
	IsAdmin bool
}

// Decision - результат: либо отрисовка (возможно, заглушки), либо редирект.
type Decision struct {
	Render      bool
	Placeholder bool
	RedirectTo  string
}

// Decide детерминированно и без побочных эффектов выбирает исход для пары
// (сессия, требуемый уровень доступа).
func Decide(s Session, cap Capability) Decision {
	switch {
	case s.State == Loading:
		// До разрешения сессии всегда заглушка: преждевременный редирект
		// отправил бы уже аутентифицированного пользователя на /auth.
		return Decision{Render: true, Placeholder: true}
	case s.State == Unauthenticated && cap != CapNone:
		return Decision{RedirectTo: AuthPath}
	case s.State == Authenticated && cap == CapAdminOnly && !s.IsAdmin:
		return Decision{RedirectTo: HomePath}
	default:
		return Decision{Render: true}
	}
}
