package earnings

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps stats in a local sqlite database. One connection,
// WAL mode; the writer is the hub's settlement flush only.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		if parent := filepath.Dir(dbPath); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS earnings (
    email              TEXT PRIMARY KEY,
    hands              INTEGER NOT NULL DEFAULT 0,
    chips_delta        INTEGER NOT NULL DEFAULT 0,
    hands_69_92        INTEGER NOT NULL DEFAULT 0,
    chips_delta_69_92  INTEGER NOT NULL DEFAULT 0,
    updated_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, email string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
SELECT hands, chips_delta, hands_69_92, chips_delta_69_92
FROM earnings WHERE email = ?`, normalizeEmail(email)).
		Scan(&st.Hands, &st.ChipsDelta, &st.Hands6992, &st.ChipsDelta6992)
	if err == sql.ErrNoRows {
		return Stats{}, nil
	}
	return st, err
}

func (s *SQLiteStore) ApplyUpdates(ctx context.Context, updates []Update) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range updates {
		email := normalizeEmail(u.Email)
		if email == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO earnings (email, hands, chips_delta, hands_69_92, chips_delta_69_92, updated_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(email) DO UPDATE SET
    hands             = hands + excluded.hands,
    chips_delta       = chips_delta + excluded.chips_delta,
    hands_69_92       = hands_69_92 + excluded.hands_69_92,
    chips_delta_69_92 = chips_delta_69_92 + excluded.chips_delta_69_92,
    updated_at        = CURRENT_TIMESTAMP`,
			email, u.Hands, u.ChipsDelta, u.Hands6992, u.ChipsDelta6992); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Enabled() bool { return true }
func (s *SQLiteStore) Close() error  { return s.db.Close() }
