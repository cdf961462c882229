package redisx

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
)

// NewClient dials Redis from REDIS_ADDR / REDIS_PASSWORD / REDIS_DB. Returns
// an error when REDIS_ADDR is unset so callers can fall back to in-memory
// components.
func NewClient(log *logger.Logger) (*goredis.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	db := 0
	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		_, _ = fmt.Sscanf(v, "%d", &db)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.With("service", "Redis").Info("Redis connected", "addr", addr)
	return rdb, nil
}
