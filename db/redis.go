package db

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

const KeyPrefix = "ohmystock:"

// ConnectRedis is optional: callers treat a failure as "run without cache".
func ConnectRedis(ctx context.Context) error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		slog.Warn("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}
