package repository

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/urbaneye/crime_reporting_system/internal/service"
)

// Сессии живут в Redis: токен непрозрачный, отзыв мгновенный.
// Ключ session:<token> хранит UUID пользователя, ключ user_session:<uuid>
// хранит активный токен, чтобы новый вход закрывал предыдущую сессию.
const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_session:"
	tokenBytes           = 32
)

type SessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewSessionStore(redisClient *redis.Client, ttl time.Duration) service.SessionStore {
	return &SessionStore{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// Create выпускает новый токен для пользователя. Предыдущая сессия
// пользователя отзывается.
func (s *SessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	if err := s.RevokeUser(ctx, userID); err != nil {
		return "", err
	}

	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+token, userID.String(), s.ttl)
	pipe.Set(ctx, userSessionKeyPrefix+userID.String(), token, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Resolve возвращает UUID пользователя по токену
func (s *SessionStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, fmt.Errorf("session: %w", service.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse session user id: %w", err)
	}
	return userID, nil
}

// Revoke отзывает сессию по токену. Неизвестный токен не считается ошибкой.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	val, err := s.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to get session for revoke: %w", err)
	}

	pipe := s.redisClient.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+token)
	pipe.Del(ctx, userSessionKeyPrefix+val)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeUser отзывает активную сессию пользователя, если она есть
func (s *SessionStore) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	token, err := s.redisClient.Get(ctx, userSessionKeyPrefix+userID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to get user session for revoke: %w", err)
	}

	pipe := s.redisClient.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+token)
	pipe.Del(ctx, userSessionKeyPrefix+userID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke user session: %w", err)
	}
	return nil
}
