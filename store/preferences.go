package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

var ErrPreferenceNotFound = errors.New("preference not found")

// Preferences is durable key/value storage for client settings.
type Preferences interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

const prefKeyPrefix = "pref:"

// BadgerPreferences keeps preferences in a badger database.
type BadgerPreferences struct {
	db *badger.DB
}

// OpenBadgerPreferences opens (or creates) a store in dir. An empty dir
// gives an in-memory store.
func OpenBadgerPreferences(dir string) (*BadgerPreferences, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	return &BadgerPreferences{db: db}, nil
}

func NewBadgerPreferences(db *badger.DB) *BadgerPreferences {
	return &BadgerPreferences{db: db}
}

func (p *BadgerPreferences) Get(key string) (string, error) {
	var value string
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrPreferenceNotFound
		}
		if err != nil {
			return fmt.Errorf("get preference: %w", err)
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	return value, err
}

func (p *BadgerPreferences) Set(key, value string) error {
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefKeyPrefix+key), []byte(value))
	})
}

func (p *BadgerPreferences) Delete(key string) error {
	return p.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(prefKeyPrefix + key))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete preference: %w", err)
		}
		return nil
	})
}

func (p *BadgerPreferences) Close() error {
	return p.db.Close()
}

// MemoryPreferences is a process-local Preferences.
type MemoryPreferences struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{values: make(map[string]string)}
}

func (p *MemoryPreferences) Get(key string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	if !ok {
		return "", ErrPreferenceNotFound
	}
	return v, nil
}

func (p *MemoryPreferences) Set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
	return nil
}

func (p *MemoryPreferences) Delete(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
	return nil
}
