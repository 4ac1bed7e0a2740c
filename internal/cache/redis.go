package cache

import (
	"context"
	"fmt"
	"log"

	"certhub/internal/config"

	"github.com/go-redis/redis/v8"
)

// Client is the process-wide redis client; the fee-schedule provider uses
// it as the mirror store for degraded loads.
var Client *redis.Client

// InitRedis initializes the redis connection and verifies it with a ping
func InitRedis(cfg *config.RedisConfig) error {
	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := Client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	log.Printf("✓ Redis connected (%s, db %d)", cfg.Addr, cfg.DB)
	return nil
}

// Close closes the redis connection
func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}
