package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a Store backed by an embedded BadgerDB directory. Decoded
// values are mirrored in memory and the mirror is kept in sync on every
// Set, so reads after the initial load never touch disk. Single writer
// per process.
type Badger struct {
	db     *badger.DB
	mirror map[string][]byte
}

// NewBadger opens (or creates) a BadgerDB at dir and loads every existing
// key into the in-memory mirror.
func NewBadger(dir string) (*Badger, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}

	b := &Badger{db: db, mirror: make(map[string][]byte)}
	if err := b.loadMirror(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// NewBadgerInMemory opens a disk-free BadgerDB, used in tests.
func NewBadgerInMemory() (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory badger store: %w", err)
	}
	return &Badger{db: db, mirror: make(map[string][]byte)}, nil
}

func (b *Badger) loadMirror() error {
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			b.mirror[string(item.Key())] = val
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load store contents: %w", err)
	}
	return nil
}

func (b *Badger) Get(ctx context.Context, key string, v any) (bool, error) {
	raw, ok := b.mirror[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode value for %q: %w", key, err)
	}
	return true, nil
}

func (b *Badger) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to persist %q: %w", key, err)
	}

	b.mirror[key] = raw
	return nil
}

func (b *Badger) Delete(ctx context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	delete(b.mirror, key)
	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}
