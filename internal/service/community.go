package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/webhook"
)

// CommunityRepository определяет контракт хранилища ленты сообщества.
// Хранилище живет в памяти процесса и не переживает перезапуск.
type CommunityRepository interface {
	ListPosts(ctx context.Context) ([]*models.CommunityPost, error)
	AddPost(ctx context.Context, post *models.CommunityPost) error
	LikePost(ctx context.Context, postID int64) (int, error)
	ViewPost(ctx context.Context, postID int64) error
	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
	AddComment(ctx context.Context, comment *models.Comment) error
	ListAlerts(ctx context.Context) ([]*models.EmergencyAlert, error)
	AddAlert(ctx context.Context, alert *models.EmergencyAlert) error
}

// CommunityService определяет контракт ленты сообщества и экстренных оповещений
type CommunityService interface {
	ListPosts(ctx context.Context) ([]*models.CommunityPost, error)
	PublishPost(ctx context.Context, post *models.CommunityPost) error
	LikePost(ctx context.Context, postID int64) (int, error)
	ViewPost(ctx context.Context, postID int64) error
	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
	AddComment(ctx context.Context, comment *models.Comment) error
	ListAlerts(ctx context.Context) ([]*models.EmergencyAlert, error)
	PublishAlert(ctx context.Context, alert *models.EmergencyAlert) error
}

type communityService struct {
	repo      CommunityRepository
	logger    *logrus.Logger
	publisher webhook.AlertPublisher
}

func NewCommunityService(repo CommunityRepository, logger *logrus.Logger, publisher webhook.AlertPublisher) CommunityService {
	return &communityService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// ListPosts возвращает публикации, новые первыми
func (s *communityService) ListPosts(ctx context.Context) ([]*models.CommunityPost, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list posts: %w", err)
	}
	return posts, nil
}

// PublishPost добавляет публикацию в ленту. Пустая категория заменяется
// категорией по умолчанию.
func (s *communityService) PublishPost(ctx context.Context, post *models.CommunityPost) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "community",
		"method":  "PublishPost",
		"title":   post.Title,
	})

	if post.Title == "" || post.Content == "" {
		return fmt.Errorf("service: title and content are required: %w", ErrValidation)
	}
	if post.Category == "" {
		post.Category = models.CategoryDefault
	}
	if !models.ValidPostCategory(post.Category) {
		return fmt.Errorf("service: unknown category %q: %w", post.Category, ErrValidation)
	}
	post.Views = 0
	post.Likes = 0
	post.CreatedAt = time.Now()

	if err := s.repo.AddPost(ctx, post); err != nil {
		log.WithError(err).Error("Failed to add community post")
		return fmt.Errorf("service: could not add post: %w", err)
	}

	log.WithField("post_id", post.ID).Info("Community post published")
	return nil
}

// LikePost увеличивает счетчик отметок и возвращает новое значение
func (s *communityService) LikePost(ctx context.Context, postID int64) (int, error) {
	likes, err := s.repo.LikePost(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("service: could not like post: %w", err)
	}
	return likes, nil
}

// ViewPost фиксирует просмотр публикации
func (s *communityService) ViewPost(ctx context.Context, postID int64) error {
	if err := s.repo.ViewPost(ctx, postID); err != nil {
		return fmt.Errorf("service: could not record post view: %w", err)
	}
	return nil
}

// ListComments возвращает комментарии публикации
func (s *communityService) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("service: could not list comments: %w", err)
	}
	return comments, nil
}

// AddComment добавляет комментарий к публикации
func (s *communityService) AddComment(ctx context.Context, comment *models.Comment) error {
	if comment.Content == "" {
		return fmt.Errorf("service: comment content is required: %w", ErrValidation)
	}
	comment.CreatedAt = time.Now()

	if err := s.repo.AddComment(ctx, comment); err != nil {
		return fmt.Errorf("service: could not add comment: %w", err)
	}
	return nil
}

// ListAlerts возвращает экстренные оповещения, новые первыми
func (s *communityService) ListAlerts(ctx context.Context) ([]*models.EmergencyAlert, error) {
	alerts, err := s.repo.ListAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list alerts: %w", err)
	}
	return alerts, nil
}

// PublishAlert добавляет экстренное оповещение и отправляет событие
// в очередь уведомлений. Сбой доставки не отменяет публикацию.
func (s *communityService) PublishAlert(ctx context.Context, alert *models.EmergencyAlert) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "community",
		"method":  "PublishAlert",
		"title":   alert.Title,
	})

	if alert.Title == "" || alert.Message == "" {
		return fmt.Errorf("service: title and message are required: %w", ErrValidation)
	}
	if alert.Severity == "" {
		alert.Severity = models.AlertSeverityDefault
	}
	if !models.ValidAlertSeverity(alert.Severity) {
		return fmt.Errorf("service: unknown severity %q: %w", alert.Severity, ErrValidation)
	}
	alert.Status = models.AlertStatusActive
	alert.CreatedAt = time.Now()

	if err := s.repo.AddAlert(ctx, alert); err != nil {
		log.WithError(err).Error("Failed to add emergency alert")
		return fmt.Errorf("service: could not add alert: %w", err)
	}

	event := webhook.NotificationEvent{
		Kind:      webhook.KindEmergencyAlert,
		Title:     alert.Title,
		Message:   alert.Message,
		Severity:  alert.Severity,
		Location:  alert.Location,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish alert notification")
	}

	log.WithField("alert_id", alert.ID).Info("Emergency alert published")
	return nil
}
