package config

import (
	"log"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects to redis when REDIS_URL is set. A nil client means
// the submission cache is disabled and services fall back to history.
func NewRedis(cfg *Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	log.Println("Redis connection configured")
	return client, nil
}
