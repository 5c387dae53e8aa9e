package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/napolitain/catvillage/internal/models"
)

// SQLiteStore keeps zstd-compressed snapshots in a SQLite database
type SQLiteStore struct {
	db   *sql.DB
	once sync.Once
}

// OpenSQLite opens (or creates) the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			snapshot BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL REFERENCES players(id),
			at TEXT NOT NULL,
			action TEXT NOT NULL,
			message_key TEXT NOT NULL,
			ok INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_player ON history(player_id, seq);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*models.PlayerSnapshot, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM players WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	snap, err := decode(blob)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	return snap, nil
}

func (s *SQLiteStore) Save(ctx context.Context, id string, snap *models.PlayerSnapshot) error {
	blob, err := encode(snap)
	if err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players (id, snapshot, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		id, blob, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM players ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE player_id = ?`, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Record appends a history entry. The player must already be saved.
func (s *SQLiteStore) Record(ctx context.Context, id string, e HistoryEntry) error {
	ok := 0
	if e.OK {
		ok = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (player_id, at, action, message_key, ok) VALUES (?, ?, ?, ?, ?)`,
		id, e.At.UTC().Format(time.RFC3339Nano), e.Action, e.MessageKey, ok)
	if err != nil {
		return fmt.Errorf("record %s: %w", id, err)
	}
	return nil
}

// History returns the most recent entries first, at most limit (all if limit <= 0)
func (s *SQLiteStore) History(ctx context.Context, id string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT at, action, message_key, ok FROM history WHERE player_id = ? ORDER BY seq DESC LIMIT ?`,
		id, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			at string
			e  HistoryEntry
			ok int
		)
		if err := rows.Scan(&at, &e.Action, &e.MessageKey, &ok); err != nil {
			return nil, err
		}
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("history %s: %w", id, err)
		}
		e.OK = ok == 1
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
	})
	return err
}
