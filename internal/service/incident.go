package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urbaneye/crime_reporting_system/internal/filter"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/webhook"
)

// IncidentRepository определяет контракт для работы с хранилищем инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	List(ctx context.Context) ([]*models.Incident, error)
	ListWithReporters(ctx context.Context) ([]*models.Incident, error)
	ListGeotagged(ctx context.Context) ([]*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Stats(ctx context.Context) (*models.DashboardStats, error)
	GetListFromCache(ctx context.Context) ([]*models.Incident, error)
	SetListCache(ctx context.Context, incidents []*models.Incident) error
	InvalidateListCache(ctx context.Context) error
}

// IncidentService определяет контракт бизнес-логики работы с отчетами
type IncidentService interface {
	Report(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, sel filter.Selection) ([]*models.Incident, error)
	ListForAdmin(ctx context.Context) ([]*models.Incident, error)
	ListGeotagged(ctx context.Context) ([]*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	publisher webhook.AlertPublisher
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, publisher webhook.AlertPublisher) IncidentService {
	return &incidentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// Report принимает новый отчет о происшествии. Валидация выполняется до
// обращения к хранилищу; приоритет по умолчанию - medium, статус - pending.
func (s *incidentService) Report(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Report",
		"title":   incident.Title,
	})

	if incident.UserID == nil {
		log.Warn("Report attempted without an authenticated user")
		return fmt.Errorf("service: %w", ErrAuthRequired)
	}
	if incident.Title == "" || incident.Description == "" || incident.IncidentType == "" {
		return fmt.Errorf("service: title, incident_type and description are required: %w", ErrValidation)
	}
	if !models.ValidIncidentType(incident.IncidentType) {
		return fmt.Errorf("service: unknown incident_type %q: %w", incident.IncidentType, ErrValidation)
	}
	if incident.Priority == "" {
		incident.Priority = models.PriorityDefault
	}
	if !models.ValidPriority(incident.Priority) {
		return fmt.Errorf("service: unknown priority %q: %w", incident.Priority, ErrValidation)
	}
	if incident.IncidentDate.IsZero() {
		incident.IncidentDate = time.Now()
	}
	incident.Status = models.StatusPending

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	if err := s.repo.InvalidateListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident list cache")
	}

	// Критичные отчеты уходят в очередь уведомлений; сбой доставки не
	// влияет на результат операции для заявителя.
	if incident.Priority == models.PriorityCritical {
		event := webhook.NotificationEvent{
			Kind:      webhook.KindCriticalIncident,
			Title:     incident.Title,
			Message:   incident.Description,
			Severity:  incident.Priority,
			Location:  incident.Address,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.WithError(err).Warn("Failed to publish critical incident notification")
		}
	}

	log.WithField("incident_id", incident.ID).Info("Incident reported successfully")
	return nil
}

// GetIncident получает отчет по ID
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	return incident, nil
}

// ListIncidents возвращает все отчеты (created_at desc) и применяет к ним
// фильтр в памяти. Полная выборка кешируется, критерии - нет.
func (s *incidentService) ListIncidents(ctx context.Context, sel filter.Selection) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
	})

	incidents, err := s.repo.GetListFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Incident list cache lookup failed")
	}
	if incidents == nil {
		incidents, err = s.repo.List(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to list incidents from repository")
			return nil, fmt.Errorf("service: could not list incidents: %w", err)
		}
		if err := s.repo.SetListCache(ctx, incidents); err != nil {
			log.WithError(err).Warn("Failed to cache incident list")
		}
	}

	visible := filter.Apply(incidents, sel)
	log.WithFields(logrus.Fields{"total": len(incidents), "visible": len(visible)}).Info("Incidents listed")
	return visible, nil
}

// ListForAdmin возвращает отчеты с именами заявителей для админ-консоли
func (s *incidentService) ListForAdmin(ctx context.Context) ([]*models.Incident, error) {
	incidents, err := s.repo.ListWithReporters(ctx)
	if err != nil {
		s.logger.WithField("service", "incident").WithError(err).Error("Failed to list incidents for admin")
		return nil, fmt.Errorf("service: could not list incidents for admin: %w", err)
	}
	return incidents, nil
}

// ListGeotagged возвращает отчеты с заполненными координатами (для карты)
func (s *incidentService) ListGeotagged(ctx context.Context) ([]*models.Incident, error) {
	incidents, err := s.repo.ListGeotagged(ctx)
	if err != nil {
		s.logger.WithField("service", "incident").WithError(err).Error("Failed to list geotagged incidents")
		return nil, fmt.Errorf("service: could not list geotagged incidents: %w", err)
	}
	return incidents, nil
}

// UpdateStatus меняет статус отчета. Право доступа проверяется маршрутом;
// здесь проверяется только само значение статуса.
func (s *incidentService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateStatus",
		"incident_id": id,
		"status":      status,
	})

	if !models.ValidStatus(status) {
		return fmt.Errorf("service: unknown status %q: %w", status, ErrValidation)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		log.WithError(err).Error("Failed to update incident status")
		return fmt.Errorf("service: could not update incident status: %w", err)
	}

	if err := s.repo.InvalidateListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident list cache")
	}

	log.Info("Incident status updated")
	return nil
}

// DashboardStats возвращает агрегаты для дашборда
func (s *incidentService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.logger.WithField("service", "incident").WithError(err).Error("Failed to get dashboard stats")
		return nil, fmt.Errorf("service: could not get dashboard stats: %w", err)
	}
	return stats, nil
}
