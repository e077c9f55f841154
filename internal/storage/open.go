package storage

import (
	"context"
	"fmt"

	"github.com/anneomcl/TeamWolverine/internal/config"
)

// Open создаёт хранилище прогресса по конфигурации
func Open(ctx context.Context, cfg config.StorageConfig) (ProgressStore, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryProgressStore(), nil
	case "badger":
		return NewBadgerProgressStore(cfg.Path)
	case "redis":
		return NewRedisProgressStore(ctx, &RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
			TTL:       cfg.TTL(),
		})
	default:
		return nil, fmt.Errorf("неизвестный бэкенд хранилища %q", cfg.Backend)
	}
}
