package earnings

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore is the remote backend for managed deployments.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS earnings (
    email              TEXT PRIMARY KEY,
    hands              BIGINT NOT NULL DEFAULT 0,
    chips_delta        BIGINT NOT NULL DEFAULT 0,
    hands_69_92        BIGINT NOT NULL DEFAULT 0,
    chips_delta_69_92  BIGINT NOT NULL DEFAULT 0,
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, email string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
SELECT hands, chips_delta, hands_69_92, chips_delta_69_92
FROM earnings WHERE email = $1`, normalizeEmail(email)).
		Scan(&st.Hands, &st.ChipsDelta, &st.Hands6992, &st.ChipsDelta6992)
	if err == sql.ErrNoRows {
		return Stats{}, nil
	}
	return st, err
}

func (s *PostgresStore) ApplyUpdates(ctx context.Context, updates []Update) error {
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
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (email) DO UPDATE SET
    hands             = earnings.hands + EXCLUDED.hands,
    chips_delta       = earnings.chips_delta + EXCLUDED.chips_delta,
    hands_69_92       = earnings.hands_69_92 + EXCLUDED.hands_69_92,
    chips_delta_69_92 = earnings.chips_delta_69_92 + EXCLUDED.chips_delta_69_92,
    updated_at        = now()`,
			email, u.Hands, u.ChipsDelta, u.Hands6992, u.ChipsDelta6992); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) Enabled() bool { return true }
func (s *PostgresStore) Close() error  { return s.db.Close() }
