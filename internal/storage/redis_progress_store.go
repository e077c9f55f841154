package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/anneomcl/TeamWolverine/internal/logging"
	"github.com/go-redis/redis/v8"
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string        // Адрес Redis сервера
	Password  string        // Пароль (пустой если не требуется)
	DB        int           // Номер базы данных
	KeyPrefix string        // Префикс для ключей
	TTL       time.Duration // Время жизни записей; 0: без истечения
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "garden:",
	}
}

// RedisProgressStore хранит прогресс в двух хешах Redis:
// <prefix>quotas (правило → счётчик) и <prefix>journal (вариант → JSON записи).
type RedisProgressStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	mu        sync.Mutex
	closed    bool
}

// NewRedisProgressStore подключается к Redis и проверяет соединение
func NewRedisProgressStore(ctx context.Context, config *RedisConfig) (*RedisProgressStore, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetStorageLogger().Info("🔴 Connected to Redis at %s", config.Addr)
	return NewRedisProgressStoreWithClient(client, config.KeyPrefix, config.TTL), nil
}

// NewRedisProgressStoreWithClient оборачивает готовый клиент
func NewRedisProgressStoreWithClient(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisProgressStore {
	return &RedisProgressStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *RedisProgressStore) quotasKey() string  { return s.keyPrefix + "quotas" }
func (s *RedisProgressStore) journalKey() string { return s.keyPrefix + "journal" }

func (s *RedisProgressStore) ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotReady
	}
	return nil
}

func (s *RedisProgressStore) SaveQuotas(ctx context.Context, counts map[string]uint) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(counts) == 0 {
		return nil
	}

	values := make(map[string]interface{}, len(counts))
	for name, count := range counts {
		values[name] = strconv.FormatUint(uint64(count), 10)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.quotasKey(), values)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.quotasKey(), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ошибка сохранения квот в Redis: %w", err)
	}
	return nil
}

func (s *RedisProgressStore) LoadQuotas(ctx context.Context) (map[string]uint, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	raw, err := s.client.HGetAll(ctx, s.quotasKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения квот из Redis: %w", err)
	}

	result := make(map[string]uint, len(raw))
	for name, value := range raw {
		count, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("квота %s: некорректное значение %q", name, value)
		}
		result[name] = uint(count)
	}
	return result, nil
}

func (s *RedisProgressStore) RecordDiscovery(ctx context.Context, v garden.Variant, at time.Time) (bool, error) {
	if err := validateVariant(v); err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}

	key := s.journalKey()
	first := false

	txf := func(tx *redis.Tx) error {
		entry := newJournalEntry(v, at)
		first = false

		data, err := tx.HGet(ctx, key, v.Name).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			first = true
		case err != nil:
			return err
		default:
			var existing JournalEntry
			if err := json.Unmarshal(data, &existing); err != nil {
				return err
			}
			existing.Count++
			entry = existing
		}

		encoded, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, v.Name, encoded)
			if s.ttl > 0 {
				pipe.Expire(ctx, key, s.ttl)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("ошибка записи журнала в Redis: %w", err)
		}
		return first, nil
	}
	return false, fmt.Errorf("ошибка записи журнала в Redis: %w", redis.TxFailedErr)
}

func (s *RedisProgressStore) Journal(ctx context.Context) ([]JournalEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	raw, err := s.client.HGetAll(ctx, s.journalKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала из Redis: %w", err)
	}

	entries := make([]JournalEntry, 0, len(raw))
	for name, value := range raw {
		var entry JournalEntry
		if err := json.Unmarshal([]byte(value), &entry); err != nil {
			return nil, fmt.Errorf("журнал %s: %w", name, err)
		}
		entries = append(entries, entry)
	}
	sortJournal(entries)
	return entries, nil
}

func (s *RedisProgressStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.client.Close()
}
