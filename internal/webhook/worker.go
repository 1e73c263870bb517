package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urbaneye/crime_reporting_system/internal/config"
)

// Worker забирает события из очереди и доставляет их на настроенный URL
// с подписью HMAC-SHA256 и повторными попытками.
type Worker struct {
	rdb    *redis.Client
	client *http.Client
	logger *logrus.Logger

	url        string
	secret     string
	maxRetries int
	baseDelay  time.Duration
}

func NewWorker(rdb *redis.Client, cfg *config.Config, logger *logrus.Logger) *Worker {
	return &Worker{
		rdb:        rdb,
		client:     &http.Client{Timeout: cfg.WebhookTimeout},
		logger:     logger,
		url:        cfg.WebhookURL,
		secret:     cfg.WebhookSecret,
		maxRetries: cfg.WebhookMaxRetries,
		baseDelay:  cfg.WebhookBaseDelay,
	}
}

// Run блокируется до отмены контекста. Если URL приемника не настроен,
// воркер не стартует: события остаются в очереди.
func (w *Worker) Run(ctx context.Context) {
	if w.url == "" {
		w.logger.Info("Webhook URL is not configured, notification worker disabled")
		return
	}

	w.logger.WithField("url", w.url).Info("Notification worker started")
	for {
		res, err := w.rdb.BRPop(ctx, 0, queueKey).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				w.logger.Info("Notification worker stopped")
				return
			}
			w.logger.WithError(err).Error("Failed to read from notification queue")
			time.Sleep(w.baseDelay)
			continue
		}
		// BRPop возвращает пару [key, value]
		if len(res) != 2 {
			continue
		}
		w.deliver(ctx, []byte(res[1]))
	}
}

// deliver отправляет полезную нагрузку с экспоненциальной задержкой между
// попытками. После исчерпания попыток событие отбрасывается с записью в лог.
func (w *Worker) deliver(ctx context.Context, payload []byte) {
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		err := w.post(ctx, payload)
		if err == nil {
			w.logger.WithField("attempt", attempt).Info("Notification delivered")
			return
		}

		w.logger.WithError(err).WithField("attempt", attempt).Warn("Notification delivery failed")
		if attempt < w.maxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.baseDelay * time.Duration(1<<(attempt-1))):
			}
		}
	}
	w.logger.WithField("max_retries", w.maxRetries).Error("Notification dropped after retries")
}

func (w *Worker) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("webhook: could not build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		req.Header.Set("X-Signature", Sign(w.secret, payload))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook: receiver returned status %d", resp.StatusCode)
	}
	return nil
}

// Sign возвращает hex-представление HMAC-SHA256 подписи полезной нагрузки
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
