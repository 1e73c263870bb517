package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbaneye/crime_reporting_system/internal/filter"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/service/mocks"
	"github.com/urbaneye/crime_reporting_system/internal/webhook"
	webhook_mocks "github.com/urbaneye/crime_reporting_system/internal/webhook/mocks"
	"go.uber.org/mock/gomock"
)

// newTestIncidentService - вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, *mocks.MockIncidentRepository, *webhook_mocks.MockAlertPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	publisherMock := webhook_mocks.NewMockAlertPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewIncidentService(repoMock, logger, publisherMock)
	return service.(*incidentService), repoMock, publisherMock
}

func validIncident(userID uuid.UUID) *models.Incident {
	return &models.Incident{
		Title:        "Украден велосипед",
		Description:  "Велосипед пропал от стойки у вокзала",
		IncidentType: "theft",
		Address:      "Привокзальная площадь",
		UserID:       &userID,
	}
}

func TestReport_Success_DefaultsApplied(t *testing.T) {
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := validIncident(uuid.New())

	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, inc *models.Incident) error {
			inc.ID = uuid.New()
			return nil
		}).Times(1)
	repoMock.EXPECT().InvalidateListCache(ctx).Return(nil).Times(1)
	// Для некритичного отчета уведомление не публикуется
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	err := service.Report(ctx, incident)

	require.NoError(t, err)
	assert.Equal(t, models.PriorityDefault, incident.Priority)
	assert.Equal(t, models.StatusPending, incident.Status)
	assert.False(t, incident.IncidentDate.IsZero())
	assert.NotEqual(t, uuid.Nil, incident.ID)
}

func TestReport_Critical_PublishesNotification(t *testing.T) {
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := validIncident(uuid.New())
	incident.Priority = models.PriorityCritical

	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateListCache(ctx).Return(nil).Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(ctx context.Context, event webhook.NotificationEvent) {
			assert.Equal(t, webhook.KindCriticalIncident, event.Kind)
			assert.Equal(t, incident.Title, event.Title)
			assert.Equal(t, models.PriorityCritical, event.Severity)
		}).Return(nil).Times(1)

	err := service.Report(ctx, incident)

	require.NoError(t, err)
}

func TestReport_Critical_PublishFailureDoesNotFailReport(t *testing.T) {
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := validIncident(uuid.New())
	incident.Priority = models.PriorityCritical

	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateListCache(ctx).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(fmt.Errorf("очередь недоступна")).Times(1)

	err := service.Report(ctx, incident)

	require.NoError(t, err)
}

func TestReport_WithoutUser(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := validIncident(uuid.New())
	incident.UserID = nil

	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	err := service.Report(ctx, incident)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestReport_MissingRequiredFields(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := validIncident(uuid.New())
	incident.Description = ""

	// Валидация выполняется до обращения к хранилищу
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	err := service.Report(ctx, incident)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReport_UnknownIncidentType(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := validIncident(uuid.New())
	incident.IncidentType = "picnic"

	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	err := service.Report(ctx, incident)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReport_UnknownPriority(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := validIncident(uuid.New())
	incident.Priority = "urgent"

	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	err := service.Report(ctx, incident)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListIncidents_Success_FromDB(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	stored := []*models.Incident{
		{ID: uuid.New(), Title: "Кража", IncidentType: "theft", Status: "pending", Priority: "medium"},
		{ID: uuid.New(), Title: "Вандализм", IncidentType: "vandalism", Status: "resolved", Priority: "low"},
	}

	// 1. Промах кеша
	repoMock.EXPECT().GetListFromCache(ctx).Return(nil, nil).Times(1)
	// 2. Чтение из БД
	repoMock.EXPECT().List(ctx).Return(stored, nil).Times(1)
	// 3. Запись в кеш
	repoMock.EXPECT().SetListCache(ctx, stored).Return(nil).Times(1)

	incidents, err := service.ListIncidents(ctx, filter.Selection{Type: filter.All, Status: filter.All, Severity: filter.All})

	require.NoError(t, err)
	assert.Equal(t, stored, incidents)
}

func TestListIncidents_Success_FromCache(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	cached := []*models.Incident{
		{ID: uuid.New(), Title: "Кража", IncidentType: "theft", Status: "pending", Priority: "medium"},
	}

	repoMock.EXPECT().GetListFromCache(ctx).Return(cached, nil).Times(1)
	repoMock.EXPECT().List(gomock.Any()).Times(0)

	incidents, err := service.ListIncidents(ctx, filter.Selection{})

	require.NoError(t, err)
	assert.Equal(t, cached, incidents)
}

func TestListIncidents_FilterApplied(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	stored := []*models.Incident{
		{ID: uuid.New(), Title: "Кража", IncidentType: "theft", Status: "pending", Priority: "medium"},
		{ID: uuid.New(), Title: "Вандализм", IncidentType: "vandalism", Status: "resolved", Priority: "low"},
		{ID: uuid.New(), Title: "Еще кража", IncidentType: "theft", Status: "resolved", Priority: "low"},
	}

	repoMock.EXPECT().GetListFromCache(ctx).Return(stored, nil).Times(1)

	incidents, err := service.ListIncidents(ctx, filter.Selection{Type: "theft", Status: "resolved"})

	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, stored[2].ID, incidents[0].ID)
}

func TestListIncidents_CacheFailureFallsThroughToDB(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	stored := []*models.Incident{
		{ID: uuid.New(), Title: "Кража", IncidentType: "theft", Status: "pending", Priority: "medium"},
	}

	repoMock.EXPECT().GetListFromCache(ctx).Return(nil, fmt.Errorf("redis недоступен")).Times(1)
	repoMock.EXPECT().List(ctx).Return(stored, nil).Times(1)
	repoMock.EXPECT().SetListCache(ctx, stored).Return(nil).Times(1)

	incidents, err := service.ListIncidents(ctx, filter.Selection{})

	require.NoError(t, err)
	assert.Equal(t, stored, incidents)
}

func TestUpdateStatus_Success(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	repoMock.EXPECT().UpdateStatus(ctx, incidentID, "investigating").Return(nil).Times(1)
	repoMock.EXPECT().InvalidateListCache(ctx).Return(nil).Times(1)

	err := service.UpdateStatus(ctx, incidentID, "investigating")

	require.NoError(t, err)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()

	repoMock.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := service.UpdateStatus(ctx, uuid.New(), "archived")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetIncident_NotFound(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	repoMock.EXPECT().GetByID(ctx, incidentID).Return(nil, fmt.Errorf("не найдено: %w", ErrNotFound)).Times(1)

	incident, err := service.GetIncident(ctx, incidentID)

	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboardStats_Success(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := &models.DashboardStats{
		TotalIncidents:    10,
		ResolvedIncidents: 4,
		ActiveIncidents:   6,
		Monthly:           []models.MonthlyCount{{Month: "Jan", Reports: 3}},
		ByType:            []models.TypeCount{{IncidentType: "theft", Count: 5}},
	}

	repoMock.EXPECT().Stats(ctx).Return(expected, nil).Times(1)

	stats, err := service.DashboardStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, stats)
}

func TestListGeotagged_Success(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	lat, lon := 40.7128, -74.006
	expected := []*models.Incident{
		{ID: uuid.New(), Title: "С координатами", Latitude: &lat, Longitude: &lon, IncidentDate: time.Now()},
	}

	repoMock.EXPECT().ListGeotagged(ctx).Return(expected, nil).Times(1)

	incidents, err := service.ListGeotagged(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, incidents)
}
