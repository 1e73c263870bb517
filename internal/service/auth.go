package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository определяет контракт хранилища учетных записей
type UserRepository interface {
	CreateWithProfile(ctx context.Context, user *models.User, fullName string) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SessionStore определяет контракт хранилища сессий. Токены непрозрачны
// и отзываемы на стороне сервера.
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
	RevokeUser(ctx context.Context, userID uuid.UUID) error
}

// AuthService определяет контракт регистрации и входа
type AuthService interface {
	SignUp(ctx context.Context, email, password, fullName string) (*models.Identity, string, error)
	SignIn(ctx context.Context, email, password string) (*models.Identity, string, error)
	SignOut(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (*models.Identity, error)
}

type authService struct {
	users      UserRepository
	sessions   SessionStore
	logger     *logrus.Logger
	bcryptCost int
}

func NewAuthService(users UserRepository, sessions SessionStore, logger *logrus.Logger, bcryptCost int) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// SignUp регистрирует учетную запись, заводит профиль и сразу открывает сессию
func (s *authService) SignUp(ctx context.Context, email, password, fullName string) (*models.Identity, string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "SignUp",
		"email":   email,
	})

	if email == "" || password == "" {
		return nil, "", fmt.Errorf("service: email and password are required: %w", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("service: could not hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateWithProfile(ctx, user, fullName); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			log.Warn("Sign up with taken email")
			return nil, "", fmt.Errorf("service: %w", ErrEmailTaken)
		}
		log.WithError(err).Error("Failed to create user")
		return nil, "", fmt.Errorf("service: could not create user: %w", err)
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to create session after sign up")
		return nil, "", fmt.Errorf("service: could not create session: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User signed up")
	return &models.Identity{ID: user.ID, Email: user.Email}, token, nil
}

// SignIn проверяет пару email/пароль и открывает новую сессию.
// Неизвестный email и неверный пароль неразличимы для вызывающей стороны.
func (s *authService) SignIn(ctx context.Context, email, password string) (*models.Identity, string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "SignIn",
		"email":   email,
	})

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("Sign in with unknown email")
			return nil, "", fmt.Errorf("service: %w", ErrInvalidCredentials)
		}
		log.WithError(err).Error("Failed to get user by email")
		return nil, "", fmt.Errorf("service: could not get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("Sign in with wrong password")
		return nil, "", fmt.Errorf("service: %w", ErrInvalidCredentials)
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to create session")
		return nil, "", fmt.Errorf("service: could not create session: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User signed in")
	return &models.Identity{ID: user.ID, Email: user.Email}, token, nil
}

// SignOut отзывает сессию. Отзыв неизвестного токена не считается ошибкой.
func (s *authService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		s.logger.WithField("service", "auth").WithError(err).Error("Failed to revoke session")
		return fmt.Errorf("service: could not revoke session: %w", err)
	}
	return nil
}

// Session восстанавливает субъекта по токену
func (s *authService) Session(ctx context.Context, token string) (*models.Identity, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("service: %w", ErrAuthRequired)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Учетная запись удалена, а сессия пережила ее
			return nil, fmt.Errorf("service: %w", ErrAuthRequired)
		}
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return &models.Identity{ID: user.ID, Email: user.Email}, nil
}
