package quarantine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// #region registry-interface

// Registry is the shared keyed store behind the quarantine system. It
// exposes hash-field semantics: fields live under a hash name, values are
// opaque bytes. Any store with these four operations suffices.
type Registry interface {
	SetField(ctx context.Context, hash, field string, value []byte) error
	GetField(ctx context.Context, hash, field string) ([]byte, bool, error)
	DeleteField(ctx context.Context, hash, field string) (bool, error)
	AllFields(ctx context.Context, hash string) (map[string][]byte, error)
	Close() error
}

// #endregion registry-interface

// #region badger-registry

// BadgerRegistry implements Registry over an embedded BadgerDB. Keys are
// composed as "hash/field"; each operation is one transaction, which
// gives the per-key read-modify-write atomicity the quarantine lifecycle
// requires.
type BadgerRegistry struct {
	db *badger.DB
}

// conflictRetries bounds retry on transaction conflicts so concurrent
// writers against the same key settle last-write-wins instead of erroring.
const conflictRetries = 3

// OpenRegistry opens a persistent registry at the given directory,
// creating it if needed.
func OpenRegistry(path string) (*BadgerRegistry, error) {
	if path == "" {
		return nil, errors.New("registry path is required")
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create registry directory %s: %w", path, err)
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	return &BadgerRegistry{db: db}, nil
}

// OpenInMemoryRegistry opens a registry that lives only for the process.
// Used by tests.
func OpenInMemoryRegistry() (*BadgerRegistry, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory registry: %w", err)
	}
	return &BadgerRegistry{db: db}, nil
}

// Close releases the underlying database.
func (r *BadgerRegistry) Close() error {
	return r.db.Close()
}

// #endregion badger-registry

// #region field-ops

func fieldKey(hash, field string) []byte {
	return []byte(hash + "/" + field)
}

// SetField writes value under hash/field, replacing any prior value.
func (r *BadgerRegistry) SetField(ctx context.Context, hash, field string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("set field: %w", err)
	}
	return r.update(func(txn *badger.Txn) error {
		return txn.Set(fieldKey(hash, field), value)
	})
}

// GetField reads the value under hash/field. The boolean reports presence.
func (r *BadgerRegistry) GetField(ctx context.Context, hash, field string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("get field: %w", err)
	}
	var value []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(fieldKey(hash, field))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get field: %w", err)
	}
	return value, true, nil
}

// DeleteField removes hash/field. Returns false without error when the
// field is absent.
func (r *BadgerRegistry) DeleteField(ctx context.Context, hash, field string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("delete field: %w", err)
	}
	existed := false
	err := r.update(func(txn *badger.Txn) error {
		existed = false
		key := fieldKey(hash, field)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		existed = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, fmt.Errorf("delete field: %w", err)
	}
	return existed, nil
}

// AllFields returns every field under the hash.
func (r *BadgerRegistry) AllFields(ctx context.Context, hash string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("all fields: %w", err)
	}
	prefix := hash + "/"
	fields := make(map[string][]byte)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			fields[strings.TrimPrefix(key, prefix)] = value
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("all fields: %w", err)
	}
	return fields, nil
}

// update runs a read-write transaction, retrying on conflict so
// concurrent writers to the same key resolve last-write-wins.
func (r *BadgerRegistry) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		err = r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// #endregion field-ops
