package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/urbaneye/crime_reporting_system/internal/config"
)

// NewRedisClient создает и возвращает новый клиент Redis
func NewRedisClient(ctx context.Context, appCfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     appCfg.RedisAddr,
		Password: appCfg.RedisPass,
		DB:       appCfg.RedisDB,
		PoolSize: appCfg.RedisPoolSize,
	})

	// Проверяем соединение с Redis
	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
