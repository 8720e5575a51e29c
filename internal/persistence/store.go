package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrNoRecord means the slot has never been written.
	ErrNoRecord = errors.New("no saved record")
	// ErrCorruptRecord means the stored bytes could not be read as a record.
	ErrCorruptRecord = errors.New("corrupt saved record")
)

// DefaultSlot is the save slot used when none is configured.
const DefaultSlot = "farmGameSave"

// Store holds the serialized record of one save slot.
type Store interface {
	// Load returns the stored bytes, or ErrNoRecord.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored bytes atomically.
	Save(ctx context.Context, data []byte) error
	// Quarantine moves the current record aside so it is kept for inspection
	// but no longer loaded.
	Quarantine(ctx context.Context) error
	Close() error
}

// Kind selects a Store implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// Open creates the store for kind at path, creating parent directories as needed.
func Open(kind Kind, path, slot string) (Store, error) {
	if slot == "" {
		slot = DefaultSlot
	}
	if kind != KindMemory {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
	}

	switch kind {
	case KindFile, "":
		return NewFileStore(path), nil
	case KindSQLite:
		return OpenSQLite(path, slot)
	case KindMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

func ensureDir(path string) error {
	if path == "" {
		return errors.New("save path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// quarantineName picks "<base>.corrupt-<timestamp>" with a counter suffix when
// that name is already taken, so an earlier quarantined record is never replaced.
func quarantineName(base string, now time.Time, taken func(string) (bool, error)) (string, error) {
	stamp := fmt.Sprintf("%s.corrupt-%s", base, now.UTC().Format("20060102T150405.000000000"))
	name := stamp
	for i := 1; ; i++ {
		used, err := taken(name)
		if err != nil {
			return "", err
		}
		if !used {
			return name, nil
		}
		name = fmt.Sprintf("%s-%d", stamp, i)
	}
}
