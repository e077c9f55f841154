package storage

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/garden"
)

// ErrNotReady хранилище закрыто или ещё не открыто
var ErrNotReady = errors.New("хранилище не готово")

// JournalEntry запись журнала открытий: вариант, который игрок хотя бы раз вырастил
type JournalEntry struct {
	Variant      string           `json:"variant"`
	Category     garden.Category  `json:"category"`
	Tier         garden.SpawnTier `json:"tier"`
	JournalIndex int              `json:"journal_index"`
	FirstSeen    time.Time        `json:"first_seen"`
	Count        uint             `json:"count"`
}

// ProgressStore сохраняет прогресс игрока между запусками: счётчики квот
// и журнал открытий.
type ProgressStore interface {
	// SaveQuotas сохраняет снимок счётчиков квот целиком.
	SaveQuotas(ctx context.Context, counts map[string]uint) error

	// LoadQuotas загружает сохранённые счётчики. Пустая карта: прогресса ещё нет.
	LoadQuotas(ctx context.Context) (map[string]uint, error)

	// RecordDiscovery отмечает посадку варианта. Возвращает true,
	// если вариант встретился впервые.
	RecordDiscovery(ctx context.Context, v garden.Variant, at time.Time) (bool, error)

	// Journal возвращает журнал, упорядоченный по JournalIndex.
	Journal(ctx context.Context) ([]JournalEntry, error)

	// Close освобождает ресурсы хранилища.
	Close() error
}

func newJournalEntry(v garden.Variant, at time.Time) JournalEntry {
	return JournalEntry{
		Variant:      v.Name,
		Category:     v.Category,
		Tier:         v.Tier,
		JournalIndex: v.JournalIndex,
		FirstSeen:    at.UTC(),
		Count:        1,
	}
}

func sortJournal(entries []JournalEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].JournalIndex != entries[j].JournalIndex {
			return entries[i].JournalIndex < entries[j].JournalIndex
		}
		return entries[i].Variant < entries[j].Variant
	})
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func validateVariant(v garden.Variant) error {
	if v.Name == "" {
		return errors.New("вариант без имени")
	}
	return nil
}
