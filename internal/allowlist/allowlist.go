// Package allowlist gates seating to a known set of player emails.
// An empty list means the table is open.
package allowlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/lib/pq"
)

// Store resolves the allowed email set. Implementations normalize:
// lowercased, trimmed, empties dropped.
type Store interface {
	AllowedEmails(ctx context.Context) (map[string]struct{}, error)
	Close() error
}

// NewStoreFromEnv mirrors the earnings factory: managed runtimes read
// postgres, local runs read a JSON file (ALLOWLIST_PATH). With no
// source configured the list is empty and seating is open.
func NewStoreFromEnv(logger *log.Logger) Store {
	if dsn := os.Getenv("ALLOWLIST_DSN"); dsn != "" ||
		os.Getenv("K_SERVICE") != "" || os.Getenv("K_REVISION") != "" {
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		if dsn != "" {
			store, err := NewPostgresStore(dsn)
			if err != nil {
				logger.Warn("allowlist postgres unavailable, table open", "err", err)
				return NewStaticStore(nil)
			}
			logger.Info("allowlist", "mode", "postgres")
			return store
		}
	}
	path := os.Getenv("ALLOWLIST_PATH")
	if path == "" {
		return NewStaticStore(nil)
	}
	logger.Info("allowlist", "mode", "local", "path", path)
	return NewLocalStore(path)
}

func normalize(emails []string) map[string]struct{} {
	out := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out[e] = struct{}{}
		}
	}
	return out
}

// StaticStore serves a fixed set. Nil or empty means open seating.
type StaticStore struct {
	emails map[string]struct{}
}

func NewStaticStore(emails []string) *StaticStore {
	return &StaticStore{emails: normalize(emails)}
}

func (s *StaticStore) AllowedEmails(context.Context) (map[string]struct{}, error) {
	return s.emails, nil
}

func (s *StaticStore) Close() error { return nil }

// LocalStore reads a JSON file on every call so edits land without a
// restart. Accepts either a bare array or {"emails": [...]}.
type LocalStore struct {
	path string
}

func NewLocalStore(path string) *LocalStore { return &LocalStore{path: path} }

func (s *LocalStore) AllowedEmails(context.Context) (map[string]struct{}, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var emails []string
	if err := json.Unmarshal(data, &emails); err == nil {
		return normalize(emails), nil
	}
	var doc struct {
		Emails []string `json:"emails"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("allowlist %s: %w", s.path, err)
	}
	return normalize(doc.Emails), nil
}

func (s *LocalStore) Close() error { return nil }

// PostgresStore reads the allowed set from a single-column table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS allowed_emails (
    email TEXT PRIMARY KEY
);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) AllowedEmails(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT email FROM allowed_emails`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return normalize(emails), rows.Err()
}

func (s *PostgresStore) Close() error { return s.db.Close() }
