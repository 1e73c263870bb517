package models

import (
	"time"

	"github.com/google/uuid"
)

// User - учетная запись для аутентификации. Пароль хранится только в виде bcrypt-хэша.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity - аутентифицированный субъект, привязанный к активной сессии.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Profile - прикладная запись пользователя, один к одному с Identity.
// Создается вместе с учетной записью при регистрации.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate - частичное обновление профиля. Затрагивает только изменяемые
// поля; is_admin намеренно отсутствует и меняется исключительно админским путем.
type ProfileUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
