package storage

import (
	"context"
	"sync"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/garden"
)

// MemoryProgressStore реализует ProgressStore в памяти.
// Используется по умолчанию и в тестах.
// ВНИМАНИЕ: Данные теряются при перезапуске сервера!
type MemoryProgressStore struct {
	mu      sync.RWMutex
	quotas  map[string]uint
	journal map[string]JournalEntry
	closed  bool
}

// NewMemoryProgressStore создаёт хранилище прогресса в памяти
func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{
		quotas:  make(map[string]uint),
		journal: make(map[string]JournalEntry),
	}
}

func (s *MemoryProgressStore) SaveQuotas(ctx context.Context, counts map[string]uint) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotReady
	}

	s.quotas = make(map[string]uint, len(counts))
	for name, count := range counts {
		s.quotas[name] = count
	}
	return nil
}

func (s *MemoryProgressStore) LoadQuotas(ctx context.Context) (map[string]uint, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrNotReady
	}

	result := make(map[string]uint, len(s.quotas))
	for name, count := range s.quotas {
		result[name] = count
	}
	return result, nil
}

func (s *MemoryProgressStore) RecordDiscovery(ctx context.Context, v garden.Variant, at time.Time) (bool, error) {
	if err := validateVariant(v); err != nil {
		return false, err
	}
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrNotReady
	}

	if entry, ok := s.journal[v.Name]; ok {
		entry.Count++
		s.journal[v.Name] = entry
		return false, nil
	}
	s.journal[v.Name] = newJournalEntry(v, at)
	return true, nil
}

func (s *MemoryProgressStore) Journal(ctx context.Context) ([]JournalEntry, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrNotReady
	}

	entries := make([]JournalEntry, 0, len(s.journal))
	for _, entry := range s.journal {
		entries = append(entries, entry)
	}
	sortJournal(entries)
	return entries, nil
}

func (s *MemoryProgressStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
