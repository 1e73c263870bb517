package v1

import (
	"time"

	"github.com/google/uuid"
)

// SignUpRequest DTO для регистрации
// @Description DTO для регистрации
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name,omitempty" validate:"max=255"`
}

// SignInRequest DTO для входа
// @Description DTO для входа
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse DTO для ответа с данными сессии
// @Description DTO для ответа с данными сессии
type SessionResponse struct {
	Token string    `json:"token,omitempty"`
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// CreateIncidentRequest DTO для создания отчета о происшествии
// @Description DTO для создания отчета о происшествии
type CreateIncidentRequest struct {
	Title        string     `json:"title" validate:"required,min=2,max=255"`
	Description  string     `json:"description" validate:"required"`
	IncidentType string     `json:"incident_type" validate:"required,oneof=theft assault vandalism burglary drug_activity domestic_violence suspicious_activity other"`
	Priority     string     `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Address      string     `json:"address,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64   `json:"longitude,omitempty" validate:"omitempty,longitude"`
	IncidentDate *time.Time `json:"incident_date,omitempty"`
}

// UpdateIncidentStatusRequest DTO для смены статуса отчета
// @Description DTO для смены статуса отчета
type UpdateIncidentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending investigating resolved closed"`
}

// IncidentResponse DTO для ответа с информацией об отчете
// @Description DTO для ответа с информацией об отчете
type IncidentResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	IncidentType string     `json:"incident_type"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	Address      string     `json:"address,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	IncidentDate time.Time  `json:"incident_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	ReporterName string     `json:"reporter_name,omitempty"`
}

// UpdateProfileRequest DTO для частичного обновления профиля.
// Поле is_admin здесь отсутствует намеренно: оно меняется только
// админским маршрутом.
// @Description DTO для частичного обновления профиля
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=512"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// ProfileResponse DTO для ответа с профилем
// @Description DTO для ответа с профилем
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToggleAdminRequest DTO для переключения флага администратора.
// Клиент передает значение, которое он видел: переключение идет
// относительно него.
// @Description DTO для переключения флага администратора
type ToggleAdminRequest struct {
	Current *bool `json:"is_admin" validate:"required"`
}

// CreatePostRequest DTO для публикации в ленте сообщества
// @Description DTO для публикации в ленте сообщества
type CreatePostRequest struct {
	Title    string `json:"title" validate:"required,min=2,max=255"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category,omitempty" validate:"omitempty,oneof=general safety community alerts"`
}

// CreateCommentRequest DTO для комментария
// @Description DTO для комментария
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CreateAlertRequest DTO для экстренного оповещения
// @Description DTO для экстренного оповещения
type CreateAlertRequest struct {
	Title    string `json:"title" validate:"required,min=2,max=255"`
	Message  string `json:"message" validate:"required"`
	Severity string `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Location string `json:"location,omitempty" validate:"max=255"`
}

// LikeResponse DTO для ответа на отметку "нравится"
// @Description DTO для ответа на отметку "нравится"
type LikeResponse struct {
	Likes int `json:"likes"`
}

// MapConfigResponse DTO для настроек карты. Без токена тайлового
// провайдера клиент показывает заглушку вместо карты.
// @Description DTO для настроек карты
type MapConfigResponse struct {
	Enabled    bool   `json:"enabled"`
	TilesToken string `json:"tiles_token,omitempty"`
}
