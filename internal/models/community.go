package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Категории публикаций и уровни серьезности оповещений.
var (
	PostCategories  = []string{"general", "safety", "community", "alerts"}
	AlertSeverities = []string{"low", "medium", "high", "critical"}
	AlertStatuses   = []string{"active", "resolved"}
)

const (
	CategoryDefault      = "general"
	AlertSeverityDefault = "medium"
	AlertStatusActive    = "active"
)

// CommunityPost - публикация в ленте сообщества. Коллекция живет в памяти
// процесса: идентификаторы уникальны только в пределах сессии сервера.
type CommunityPost struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Category   string     `json:"category"`
	AuthorID   *uuid.UUID `json:"author_id,omitempty"`
	AuthorName string     `json:"author_name"`
	Views      int        `json:"views"`
	Likes      int        `json:"likes"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Comment - комментарий к публикации.
type Comment struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmergencyAlert - экстренное оповещение сообщества.
type EmergencyAlert struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	Location   string    `json:"location,omitempty"`
	Status     string    `json:"status"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidPostCategory проверяет категорию публикации.
func ValidPostCategory(c string) bool {
	return slices.Contains(PostCategories, c)
}

// ValidAlertSeverity проверяет уровень серьезности оповещения.
func ValidAlertSeverity(s string) bool {
	return slices.Contains(AlertSeverities, s)
}
