package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ucgmsim/nzgd-map/pkg/common/config"
	"github.com/ucgmsim/nzgd-map/pkg/common/logger"
)

// NewRedis builds the client for the extraction-result cache. The service
// runs fine without it; a failed ping is logged, not fatal.
func NewRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.WithError(err).Error("Failed to connect to Redis")
	} else {
		logger.Log.Info("Connected to Redis")
	}

	return client
}
