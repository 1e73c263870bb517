package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// queueKey - Redis-список, через который события уходят воркеру доставки.
const queueKey = "alert_notifications"

// Виды событий, доставляемых внешнему приемнику.
const (
	KindEmergencyAlert   = "emergency_alert"
	KindCriticalIncident = "critical_incident"
)

// NotificationEvent - событие для доставки внешнему приемнику (вебхуку).
type NotificationEvent struct {
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Location  string    `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertPublisher определяет контракт публикации событий в очередь доставки
type AlertPublisher interface {
	Publish(ctx context.Context, event NotificationEvent) error
}

type redisAlertPublisher struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

// NewRedisAlertPublisher создает публикатора событий поверх Redis-очереди
func NewRedisAlertPublisher(rdb *redis.Client, logger *logrus.Logger) AlertPublisher {
	return &redisAlertPublisher{rdb: rdb, logger: logger}
}

// Publish сериализует событие и кладет его в очередь. Доставку по HTTP
// выполняет отдельный воркер; публикация не блокируется на сети приемника.
func (p *redisAlertPublisher) Publish(ctx context.Context, event NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: could not marshal event: %w", err)
	}

	if err := p.rdb.LPush(ctx, queueKey, payload).Err(); err != nil {
		return fmt.Errorf("webhook: could not enqueue event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"kind":     event.Kind,
		"severity": event.Severity,
	}).Info("Notification event enqueued")
	return nil
}
