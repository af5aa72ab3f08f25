// Package workspace persists operator input between CLI runs: the manual-entry
// set and the maximum draw number of the last loaded table.
package workspace

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"triples-mcp/internal/simulation"
)

// Store is a SQLite-backed workspace.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the workspace database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrap(err, "workspace: create directory")
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, eris.Wrap(err, "workspace: open")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "workspace: ping")
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// pragmas run on every new pooled connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

func dsn(path string) string {
	q := make([]string, len(pragmas))
	for i, p := range pragmas {
		q[i] = "_pragma=" + p
	}
	return path + "?" + strings.Join(q, "&")
}

const migration = `
CREATE TABLE IF NOT EXISTS manual_entries (
	draw_number INTEGER PRIMARY KEY,
	has_event   INTEGER NOT NULL,
	created_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS loads (
	id        TEXT PRIMARY KEY,
	file      TEXT NOT NULL,
	rows      INTEGER NOT NULL,
	max_draw  INTEGER,
	reset     INTEGER NOT NULL DEFAULT 0,
	loaded_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_loads_loaded_at ON loads(loaded_at);
`

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "workspace: migrate")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ManualEntries returns the stored manual-entry set.
func (s *Store) ManualEntries(ctx context.Context) (*simulation.ManualSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT draw_number, has_event, created_at FROM manual_entries ORDER BY draw_number`)
	if err != nil {
		return nil, eris.Wrap(err, "workspace: list manual entries")
	}
	defer rows.Close()

	set := simulation.NewManualSet()
	for rows.Next() {
		var (
			e       simulation.ManualEntry
			created int64
		)
		if err := rows.Scan(&e.DrawNumber, &e.HasEvent, &created); err != nil {
			return nil, eris.Wrap(err, "workspace: scan manual entry")
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		set.Upsert(e)
	}
	return set, eris.Wrap(rows.Err(), "workspace: list manual entries iterate")
}

// UpsertManual stores an entry, replacing any entry with the same draw number.
func (s *Store) UpsertManual(ctx context.Context, e simulation.ManualEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO manual_entries (draw_number, has_event, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(draw_number) DO UPDATE SET has_event = excluded.has_event, created_at = excluded.created_at`,
		e.DrawNumber, e.HasEvent, e.CreatedAt.UnixMilli(),
	)
	return eris.Wrapf(err, "workspace: upsert manual entry %d", e.DrawNumber)
}

// RemoveManual deletes one entry, reporting whether it existed.
func (s *Store) RemoveManual(ctx context.Context, drawNumber int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM manual_entries WHERE draw_number = ?`, drawNumber)
	if err != nil {
		return false, eris.Wrapf(err, "workspace: remove manual entry %d", drawNumber)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "workspace: rows affected")
	}
	return n > 0, nil
}

// ResetManual deletes every entry and returns how many were removed.
func (s *Store) ResetManual(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM manual_entries`)
	if err != nil {
		return 0, eris.Wrap(err, "workspace: reset manual entries")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "workspace: rows affected")
	}
	return int(n), nil
}

// Load describes one recorded table load.
type Load struct {
	ID          string    `json:"id"`
	File        string    `json:"file"`
	Rows        int       `json:"rows"`
	MaxDraw     *int64    `json:"maxDraw"`
	PreviousMax *int64    `json:"previousMax"`
	Reset       bool      `json:"reset"`
	LoadedAt    time.Time `json:"loadedAt"`
}

// RecordLoad stores a newly loaded table and applies the reset rule: the
// manual entries are cleared when the new maximum draw number is strictly
// greater than the previous one. The new maximum always replaces the old.
func (s *Store) RecordLoad(ctx context.Context, file string, rows int, maxDraw *int64) (*Load, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "workspace: begin load")
	}
	defer tx.Rollback() //nolint:errcheck

	prev, err := lastLoad(ctx, tx)
	if err != nil {
		return nil, err
	}

	load := &Load{
		ID:       uuid.New().String(),
		File:     file,
		Rows:     rows,
		MaxDraw:  maxDraw,
		LoadedAt: time.Now().UTC(),
	}
	if prev != nil {
		load.PreviousMax = prev.MaxDraw
	}
	load.Reset = simulation.ShouldReset(load.PreviousMax, maxDraw)

	if load.Reset {
		if _, err := tx.ExecContext(ctx, `DELETE FROM manual_entries`); err != nil {
			return nil, eris.Wrap(err, "workspace: clear manual entries")
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO loads (id, file, rows, max_draw, reset, loaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		load.ID, load.File, load.Rows, nullInt64(maxDraw), load.Reset, load.LoadedAt.UnixNano(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "workspace: insert load")
	}
	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "workspace: commit load")
	}

	log.Debug().
		Str("id", load.ID).
		Str("file", file).
		Bool("reset", load.Reset).
		Msg("Load recorded")
	return load, nil
}

// LastLoad returns the most recent load, or nil when nothing was loaded yet.
func (s *Store) LastLoad(ctx context.Context) (*Load, error) {
	return lastLoad(ctx, s.db)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func lastLoad(ctx context.Context, q querier) (*Load, error) {
	var (
		l        Load
		maxDraw  sql.NullInt64
		loadedAt int64
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, file, rows, max_draw, reset, loaded_at FROM loads ORDER BY loaded_at DESC, rowid DESC LIMIT 1`,
	).Scan(&l.ID, &l.File, &l.Rows, &maxDraw, &l.Reset, &loadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "workspace: last load")
	}
	if maxDraw.Valid {
		v := maxDraw.Int64
		l.MaxDraw = &v
	}
	l.LoadedAt = time.Unix(0, loadedAt).UTC()
	return &l, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
