package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/config"
	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	daisy  = garden.Variant{Name: "daisy", Category: garden.CategoryPlant, Tier: garden.TierCommon, JournalIndex: 2}
	orchid = garden.Variant{Name: "orchid", Category: garden.CategoryPlant, Tier: garden.TierFancy, JournalIndex: 1}
)

// testProgressStore общий набор проверок для всех реализаций ProgressStore
func testProgressStore(t *testing.T, store ProgressStore) {
	ctx := context.Background()

	t.Run("Quotas Save and Load", func(t *testing.T) {
		loaded, err := store.LoadQuotas(ctx)
		require.NoError(t, err)
		assert.Empty(t, loaded, "Пустое хранилище не содержит квот")

		require.NoError(t, store.SaveQuotas(ctx, map[string]uint{"rule1": 3, "shade": 1}))
		require.NoError(t, store.SaveQuotas(ctx, map[string]uint{"rule1": 4, "shade": 1}))

		loaded, err = store.LoadQuotas(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]uint{"rule1": 4, "shade": 1}, loaded, "Загружается последний снимок")
	})

	t.Run("Journal", func(t *testing.T) {
		now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

		first, err := store.RecordDiscovery(ctx, daisy, now)
		require.NoError(t, err)
		assert.True(t, first, "Первая посадка варианта: открытие")

		first, err = store.RecordDiscovery(ctx, daisy, now.Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, first, "Повторная посадка не открытие")

		_, err = store.RecordDiscovery(ctx, orchid, now)
		require.NoError(t, err)

		journal, err := store.Journal(ctx)
		require.NoError(t, err)
		require.Len(t, journal, 2)
		assert.Equal(t, "orchid", journal[0].Variant, "Журнал упорядочен по индексу")
		assert.Equal(t, "daisy", journal[1].Variant)
		assert.Equal(t, uint(2), journal[1].Count, "Счётчик посадок увеличивается")
		assert.True(t, journal[1].FirstSeen.Equal(now), "Время первого открытия сохраняется")

		_, err = store.RecordDiscovery(ctx, garden.Variant{}, now)
		assert.Error(t, err, "Вариант без имени отклоняется")
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.LoadQuotas(cancelled)
		assert.Error(t, err)
	})

	t.Run("Closed", func(t *testing.T) {
		require.NoError(t, store.Close())
		require.NoError(t, store.Close(), "Повторное закрытие безопасно")

		_, err := store.LoadQuotas(ctx)
		assert.ErrorIs(t, err, ErrNotReady)
		assert.ErrorIs(t, store.SaveQuotas(ctx, map[string]uint{"rule1": 1}), ErrNotReady)
	})
}

func TestMemoryProgressStore(t *testing.T) {
	testProgressStore(t, NewMemoryProgressStore())
}

func TestBadgerProgressStore(t *testing.T) {
	store, err := NewBadgerProgressStore(t.TempDir())
	require.NoError(t, err, "BadgerDB должна открываться во временном каталоге")
	testProgressStore(t, store)
}

func TestBadgerProgressStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewBadgerProgressStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveQuotas(ctx, map[string]uint{"rule1": 7}))
	_, err = store.RecordDiscovery(ctx, daisy, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewBadgerProgressStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	quotas, err := reopened.LoadQuotas(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(7), quotas["rule1"], "Квоты переживают перезапуск")

	journal, err := reopened.Journal(ctx)
	require.NoError(t, err)
	assert.Len(t, journal, 1, "Журнал переживает перезапуск")
}

// TestRedisProgressStore требует запущенный Redis: GARDEN_TEST_REDIS=localhost:6379
func TestRedisProgressStore(t *testing.T) {
	addr := os.Getenv("GARDEN_TEST_REDIS")
	if addr == "" {
		t.Skip("GARDEN_TEST_REDIS не задан, пропускаем тест Redis")
	}

	prefix := "garden-test:" + time.Now().Format("150405.000000") + ":"
	store, err := NewRedisProgressStore(context.Background(), &RedisConfig{Addr: addr, KeyPrefix: prefix, TTL: time.Minute})
	require.NoError(t, err)
	testProgressStore(t, store)
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryProgressStore{}, store)

	store, err = Open(context.Background(), config.StorageConfig{Backend: "badger", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &BadgerProgressStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(context.Background(), config.StorageConfig{Backend: "mongo"})
	assert.Error(t, err)
}
