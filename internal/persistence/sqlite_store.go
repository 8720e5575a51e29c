package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const savesSchema = `
CREATE TABLE IF NOT EXISTS saves (
	slot       TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// SQLiteStore keeps records in a saves table keyed by slot name, so several
// slots can share one database file.
type SQLiteStore struct {
	db   *sqlx.DB
	slot string
}

// OpenSQLite opens (or creates) the database at path and binds the store to slot.
func OpenSQLite(path, slot string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("empty db path")
	}
	if slot == "" {
		slot = DefaultSlot
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open save database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	if _, err := db.Exec(savesSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create saves table: %w", err)
	}
	return &SQLiteStore{db: db, slot: slot}, nil
}

// Slot returns the slot the store reads and writes.
func (s *SQLiteStore) Slot() string { return s.slot }

func (s *SQLiteStore) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.GetContext(ctx, &data, `SELECT data FROM saves WHERE slot = ?`, s.slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", s.slot, err)
	}
	return Decompress(data)
}

func (s *SQLiteStore) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saves (slot, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.slot, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", s.slot, err)
	}
	return nil
}

// Quarantine renames the slot row to "<slot>.corrupt-<timestamp>". An empty
// slot is left alone and earlier quarantined rows are never replaced.
func (s *SQLiteStore) Quarantine(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin quarantine: %w", err)
	}
	defer tx.Rollback()

	target, err := quarantineName(s.slot, time.Now(), func(name string) (bool, error) {
		var n int
		if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM saves WHERE slot = ?`, name); err != nil {
			return false, fmt.Errorf("failed to check quarantine slot: %w", err)
		}
		return n > 0, nil
	})
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `UPDATE saves SET slot = ? WHERE slot = ?`, target, s.slot)
	if err != nil {
		return fmt.Errorf("failed to quarantine slot %s: %w", s.slot, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to quarantine slot %s: %w", s.slot, err)
	} else if n == 0 {
		return nil
	}
	return tx.Commit()
}

// Slots lists every slot in the database, quarantined ones included.
func (s *SQLiteStore) Slots(ctx context.Context) ([]string, error) {
	var slots []string
	if err := s.db.SelectContext(ctx, &slots, `SELECT slot FROM saves ORDER BY slot`); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
