// Package slot implements the durable key-value slot that holds the owned
// prompt and topic collections between runs.
package slot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/smith3v/trade-prompts/pkg/config"
	"github.com/smith3v/trade-prompts/pkg/db"
)

const (
	BackendGorm   = "gorm"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Slot stores whole values under string keys. Get reports ok=false for a
// key that was never written.
type Slot interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open builds the slot selected by cfg.Backend.
func Open(ctx context.Context, cfg config.LocalConfig, gormLevel string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendGorm:
		gdb, err := db.OpenSQLite(cfg.Path, gormLevel)
		if err != nil {
			return nil, fmt.Errorf("open local slot database: %w", err)
		}
		return NewGorm(gdb)
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect local slot redis: %w", err)
		}
		return NewRedis(client), nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown local slot backend %q", cfg.Backend)
	}
}
