// Package earnings persists per-player lifetime results. Writes are
// additive increments so a lost update never corrupts totals, only
// drops one hand.
package earnings

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Stats are one player's lifetime counters.
type Stats struct {
	Hands          int `json:"hands"`
	ChipsDelta     int `json:"chips_delta"`
	Hands6992      int `json:"hands_69_92"`
	ChipsDelta6992 int `json:"chips_delta_69_92"`
}

func (s *Stats) add(u Update) {
	s.Hands += u.Hands
	s.ChipsDelta += u.ChipsDelta
	s.Hands6992 += u.Hands6992
	s.ChipsDelta6992 += u.ChipsDelta6992
}

// Update is one hand's increment for one player.
type Update struct {
	Email          string
	Hands          int
	ChipsDelta     int
	Hands6992      int
	ChipsDelta6992 int
}

// Store is the persistence contract the hub flushes to once per
// settlement. ApplyUpdates must be atomic per call.
type Store interface {
	Get(ctx context.Context, email string) (Stats, error)
	ApplyUpdates(ctx context.Context, updates []Update) error
	Enabled() bool
	Close() error
}

const (
	defaultLocalPath  = "earnings.json"
	defaultSQLitePath = "earnings.db"
)

// NewStoreFromEnv picks a backend the way the deploy environment
// implies: managed runtimes (K_SERVICE/K_REVISION markers) get
// postgres, everything else defaults to a local JSON file.
// EARNINGS_MODE overrides: local | sqlite | postgres | off.
func NewStoreFromEnv(logger *log.Logger) (Store, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("EARNINGS_MODE")))
	if mode == "" {
		if os.Getenv("K_SERVICE") != "" || os.Getenv("K_REVISION") != "" {
			mode = "postgres"
		} else {
			mode = "local"
		}
	}

	switch mode {
	case "off", "none", "disabled":
		logger.Info("earnings persistence disabled")
		return NewNoopStore(), nil
	case "local", "file":
		path := os.Getenv("EARNINGS_PATH")
		if path == "" {
			path = defaultLocalPath
		}
		logger.Info("earnings store", "mode", "local", "path", path)
		return NewLocalStore(path)
	case "sqlite":
		path := os.Getenv("EARNINGS_PATH")
		if path == "" {
			path = defaultSQLitePath
		}
		logger.Info("earnings store", "mode", "sqlite", "path", path)
		return NewSQLiteStore(path)
	case "postgres":
		dsn := os.Getenv("EARNINGS_DSN")
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		logger.Info("earnings store", "mode", "postgres")
		return NewPostgresStore(dsn)
	}
	logger.Warn("unknown EARNINGS_MODE, persistence disabled", "mode", mode)
	return NewNoopStore(), nil
}

// NoopStore drops every write. Used when persistence is switched off.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (*NoopStore) Get(context.Context, string) (Stats, error)   { return Stats{}, nil }
func (*NoopStore) ApplyUpdates(context.Context, []Update) error { return nil }
func (*NoopStore) Enabled() bool                                { return false }
func (*NoopStore) Close() error                                 { return nil }
