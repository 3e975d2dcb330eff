// Package persist mirrors the in-memory record store into Postgres. The
// in-memory state stays the source of truth for the running session; the
// database row is only a crash-recovery copy, written fire-and-forget after
// every mutation and read back once at boot.
package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nooranifarms/coopledger/internal/farm"
)

// ErrNoSnapshot is returned when the database holds no saved state yet.
var ErrNoSnapshot = errors.New("no snapshot saved")

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the single-row snapshot table.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS farm_state (
			id INT PRIMARY KEY,
			data JSONB NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating farm_state table: %w", err)
	}

	return nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snap farm.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	query := `
		INSERT INTO farm_state (id, data, saved_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, saved_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, data); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	return nil
}

func (s *Store) LoadSnapshot(ctx context.Context) (farm.Snapshot, error) {
	var data []byte

	err := s.db.QueryRowContext(ctx, `SELECT data FROM farm_state WHERE id = 1`).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return farm.Snapshot{}, ErrNoSnapshot
		}

		return farm.Snapshot{}, fmt.Errorf("loading snapshot: %w", err)
	}

	var snap farm.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return farm.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}

	return snap, nil
}
