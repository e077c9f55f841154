package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

const (
	badgerQuotaPrefix   = "quota:"
	badgerJournalPrefix = "journal:"
)

// BadgerProgressStore хранит прогресс в BadgerDB.
// Значения: JSON, сжатый zstd.
type BadgerProgressStore struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewBadgerProgressStore открывает (или создаёт) базу в dataPath/progress
func NewBadgerProgressStore(dataPath string) (*BadgerProgressStore, error) {
	dbPath := filepath.Join(dataPath, "progress")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	return &BadgerProgressStore{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Path путь к каталогу базы
func (s *BadgerProgressStore) Path() string { return s.dbPath }

func (s *BadgerProgressStore) encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return s.encoder.EncodeAll(data, nil), nil
}

func (s *BadgerProgressStore) decode(data []byte, v interface{}) error {
	raw, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("распаковка zstd: %w", err)
	}
	return json.Unmarshal(raw, v)
}

func (s *BadgerProgressStore) SaveQuotas(ctx context.Context, counts map[string]uint) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if !s.isReady {
		return ErrNotReady
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for name, count := range counts {
			data, err := s.encode(count)
			if err != nil {
				return err
			}
			if err := txn.Set([]byte(badgerQuotaPrefix+name), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения квот в BadgerDB: %w", err)
	}
	return nil
}

func (s *BadgerProgressStore) LoadQuotas(ctx context.Context) (map[string]uint, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if !s.isReady {
		return nil, ErrNotReady
	}

	result := make(map[string]uint)
	err := s.scan(badgerQuotaPrefix, func(key string, value []byte) error {
		var count uint
		if err := s.decode(value, &count); err != nil {
			return fmt.Errorf("квота %s: %w", key, err)
		}
		result[key] = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BadgerProgressStore) RecordDiscovery(ctx context.Context, v garden.Variant, at time.Time) (bool, error) {
	if err := validateVariant(v); err != nil {
		return false, err
	}
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if !s.isReady {
		return false, ErrNotReady
	}

	key := []byte(badgerJournalPrefix + v.Name)
	first := false

	err := s.db.Update(func(txn *badger.Txn) error {
		entry := newJournalEntry(v, at)

		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			first = true
		case err != nil:
			return err
		default:
			var existing JournalEntry
			if err := item.Value(func(val []byte) error { return s.decode(val, &existing) }); err != nil {
				return err
			}
			existing.Count++
			entry = existing
		}

		data, err := s.encode(entry)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return false, fmt.Errorf("ошибка записи журнала в BadgerDB: %w", err)
	}
	return first, nil
}

func (s *BadgerProgressStore) Journal(ctx context.Context) ([]JournalEntry, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if !s.isReady {
		return nil, ErrNotReady
	}

	var entries []JournalEntry
	err := s.scan(badgerJournalPrefix, func(key string, value []byte) error {
		var entry JournalEntry
		if err := s.decode(value, &entry); err != nil {
			return fmt.Errorf("журнал %s: %w", key, err)
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortJournal(entries)
	return entries, nil
}

// scan обходит ключи с префиксом; fn получает ключ без префикса
func (s *BadgerProgressStore) scan(prefix string, fn func(key string, value []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			key := string(item.Key()[len(p):])
			if err := item.Value(func(val []byte) error { return fn(key, val) }); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close закрывает хранилище
func (s *BadgerProgressStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}

	s.isReady = false
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}
