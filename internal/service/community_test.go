package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/service/mocks"
	"github.com/urbaneye/crime_reporting_system/internal/webhook"
	webhook_mocks "github.com/urbaneye/crime_reporting_system/internal/webhook/mocks"
	"go.uber.org/mock/gomock"
)

// newTestCommunityService - вспомогательная функция для создания инстанса сервиса с моками.
func newTestCommunityService(t *testing.T) (*communityService, *mocks.MockCommunityRepository, *webhook_mocks.MockAlertPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockCommunityRepository(ctrl)
	publisherMock := webhook_mocks.NewMockAlertPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewCommunityService(repoMock, logger, publisherMock)
	return service.(*communityService), repoMock, publisherMock
}

func TestPublishPost_Success_DefaultCategory(t *testing.T) {
	service, repoMock, _ := newTestCommunityService(t)
	ctx := context.Background()
	post := &models.CommunityPost{
		Title:      "Объявление",
		Content:    "Субботник в парке в эту субботу",
		AuthorName: "resident@example.com",
	}

	repoMock.EXPECT().
		AddPost(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, p *models.CommunityPost) error {
			p.ID = 42
			return nil
		}).Times(1)

	err := service.PublishPost(ctx, post)

	require.NoError(t, err)
	assert.Equal(t, models.CategoryDefault, post.Category)
	assert.Zero(t, post.Views)
	assert.Zero(t, post.Likes)
	assert.EqualValues(t, 42, post.ID)
}

func TestPublishPost_MissingTitle(t *testing.T) {
	service, repoMock, _ := newTestCommunityService(t)
	ctx := context.Background()

	repoMock.EXPECT().AddPost(gomock.Any(), gomock.Any()).Times(0)

	err := service.PublishPost(ctx, &models.CommunityPost{Content: "без заголовка"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPublishPost_UnknownCategory(t *testing.T) {
	service, repoMock, _ := newTestCommunityService(t)
	ctx := context.Background()

	repoMock.EXPECT().AddPost(gomock.Any(), gomock.Any()).Times(0)

	err := service.PublishPost(ctx, &models.CommunityPost{Title: "т", Content: "с", Category: "gossip"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPublishAlert_Success_PublishesNotification(t *testing.T) {
	service, repoMock, publisherMock := newTestCommunityService(t)
	ctx := context.Background()
	alert := &models.EmergencyAlert{
		Title:      "Подозрительная активность",
		Message:    "Замечены посторонние во дворе",
		Severity:   "high",
		Location:   "Двор дома 12",
		AuthorName: "resident@example.com",
	}

	repoMock.EXPECT().
		AddAlert(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, a *models.EmergencyAlert) error {
			a.ID = 7
			return nil
		}).Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(ctx context.Context, event webhook.NotificationEvent) {
			assert.Equal(t, webhook.KindEmergencyAlert, event.Kind)
			assert.Equal(t, alert.Title, event.Title)
			assert.Equal(t, "high", event.Severity)
			assert.Equal(t, alert.Location, event.Location)
		}).Return(nil).Times(1)

	err := service.PublishAlert(ctx, alert)

	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusActive, alert.Status)
}

func TestPublishAlert_DefaultSeverity(t *testing.T) {
	service, repoMock, publisherMock := newTestCommunityService(t)
	ctx := context.Background()
	alert := &models.EmergencyAlert{Title: "Т", Message: "С"}

	repoMock.EXPECT().AddAlert(ctx, gomock.Any()).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	err := service.PublishAlert(ctx, alert)

	require.NoError(t, err)
	assert.Equal(t, models.AlertSeverityDefault, alert.Severity)
}

func TestPublishAlert_NotificationFailureDoesNotFailPublish(t *testing.T) {
	service, repoMock, publisherMock := newTestCommunityService(t)
	ctx := context.Background()
	alert := &models.EmergencyAlert{Title: "Т", Message: "С", Severity: "critical"}

	repoMock.EXPECT().AddAlert(ctx, gomock.Any()).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(fmt.Errorf("очередь недоступна")).Times(1)

	err := service.PublishAlert(ctx, alert)

	require.NoError(t, err)
}

func TestAddComment_EmptyContent(t *testing.T) {
	service, repoMock, _ := newTestCommunityService(t)
	ctx := context.Background()

	repoMock.EXPECT().AddComment(gomock.Any(), gomock.Any()).Times(0)

	err := service.AddComment(ctx, &models.Comment{PostID: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLikePost_PassesThrough(t *testing.T) {
	service, repoMock, _ := newTestCommunityService(t)
	ctx := context.Background()

	repoMock.EXPECT().LikePost(ctx, int64(5)).Return(13, nil).Times(1)

	likes, err := service.LikePost(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, 13, likes)
}
