package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/urbaneye/crime_reporting_system/internal/filter"
)

// Допустимые значения перечислимых полей инцидента.
// Неизвестные значения отклоняются на границе сервиса/репозитория.
var (
	IncidentTypes = []string{
		"theft", "assault", "vandalism", "burglary",
		"drug_activity", "domestic_violence", "suspicious_activity", "other",
	}
	IncidentPriorities = []string{"low", "medium", "high", "critical"}
	IncidentStatuses   = []string{"pending", "investigating", "resolved", "closed"}
)

const (
	PriorityDefault  = "medium"
	PriorityCritical = "critical"
	StatusPending    = "pending"
)

// Incident - основная доменная сущность: сообщение о происшествии.
// Координаты опциональны: отчеты без геопривязки не попадают на карту.
type Incident struct {
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
	// ReporterName заполняется только в админской выборке (join с profiles).
	ReporterName string `json:"reporter_name,omitempty"`
}

// ValidIncidentType проверяет, что тип входит в перечисление.
func ValidIncidentType(t string) bool {
	return slices.Contains(IncidentTypes, t)
}

// ValidPriority проверяет уровень приоритета.
func ValidPriority(p string) bool {
	return slices.Contains(IncidentPriorities, p)
}

// ValidStatus проверяет статус инцидента.
func ValidStatus(s string) bool {
	return slices.Contains(IncidentStatuses, s)
}

// FilterFields отдает поля отчета, по которым работает фильтрация списка.
func (i *Incident) FilterFields() filter.Fields {
	return filter.Fields{
		Location:    i.Address,
		Type:        i.IncidentType,
		Status:      i.Status,
		Severity:    i.Priority,
		Description: i.Description,
	}
}

// MonthlyCount - количество отчетов за месяц (для графика на дашборде).
type MonthlyCount struct {
	Month   string `json:"month"`
	Reports int    `json:"reports"`
}

// TypeCount - распределение отчетов по типам происшествий.
type TypeCount struct {
	IncidentType string `json:"incident_type"`
	Count        int    `json:"count"`
}

// DashboardStats - агрегаты для дашборда.
type DashboardStats struct {
	TotalIncidents    int            `json:"total_incidents"`
	ResolvedIncidents int            `json:"resolved_incidents"`
	ActiveIncidents   int            `json:"active_incidents"`
	Monthly           []MonthlyCount `json:"monthly"`
	ByType            []TypeCount    `json:"by_type"`
}
