package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urbaneye/crime_reporting_system/internal/models"
)

// ProfileRepository определяет контракт хранилища профилей
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, upd *models.ProfileUpdate) (*models.Profile, error)
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error
}

// ProfileService определяет контракт работы с профилями и правами
type ProfileService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd *models.ProfileUpdate) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
	ToggleAdmin(ctx context.Context, id uuid.UUID, current bool) error
	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
}

type profileService struct {
	repo   ProfileRepository
	logger *logrus.Logger
}

func NewProfileService(repo ProfileRepository, logger *logrus.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

// GetProfile возвращает профиль пользователя. Отсутствующая запись не
// ошибка: вызывающая сторона получает профиль со значениями по умолчанию.
func (s *profileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &models.Profile{ID: id}, nil
		}
		s.logger.WithField("service", "profile").WithError(err).Error("Failed to get profile")
		return nil, fmt.Errorf("service: could not get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile применяет частичное обновление и возвращает итоговую запись
func (s *profileService) UpdateProfile(ctx context.Context, id uuid.UUID, upd *models.ProfileUpdate) (*models.Profile, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "profile",
		"method":  "UpdateProfile",
		"user_id": id,
	})

	profile, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		log.WithError(err).Error("Failed to update profile")
		return nil, fmt.Errorf("service: could not update profile: %w", err)
	}

	log.Info("Profile updated")
	return profile, nil
}

// ListProfiles возвращает все профили (для админ-консоли)
func (s *profileService) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		s.logger.WithField("service", "profile").WithError(err).Error("Failed to list profiles")
		return nil, fmt.Errorf("service: could not list profiles: %w", err)
	}
	return profiles, nil
}

// ToggleAdmin инвертирует флаг относительно значения, которое видел
// вызывающий. Два последовательных переключения возвращают исходное состояние.
func (s *profileService) ToggleAdmin(ctx context.Context, id uuid.UUID, current bool) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "profile",
		"method":   "ToggleAdmin",
		"user_id":  id,
		"is_admin": !current,
	})

	if err := s.repo.SetAdmin(ctx, id, !current); err != nil {
		log.WithError(err).Error("Failed to toggle admin flag")
		return fmt.Errorf("service: could not toggle admin flag: %w", err)
	}

	log.Info("Admin flag toggled")
	return nil
}

// IsAdmin сообщает, помечен ли пользователь администратором.
// Отсутствие профиля трактуется как отсутствие прав.
func (s *profileService) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("service: could not get profile: %w", err)
	}
	return profile.IsAdmin, nil
}
