package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"dragonspoker/holdem"
	"dragonspoker/internal/allowlist"
	"dragonspoker/internal/earnings"
	"dragonspoker/internal/hub"
)

type CLI struct {
	Addr           string `help:"Listen address" default:":8080" env:"ADDR"`
	Port           string `help:"Listen port, overrides the addr port when set" env:"PORT"`
	LogLevel       string `help:"Log level (debug, info, warn, error)" default:"info" env:"LOG_LEVEL"`
	AllowedOrigins string `help:"Comma-separated websocket origins, empty allows all" env:"ALLOWED_ORIGINS"`

	TableID    string `help:"Table identifier" default:"table-1" env:"TABLE_ID"`
	MaxPlayers int    `help:"Seats at the table" default:"6" env:"MAX_PLAYERS"`
	SmallBlind int    `help:"Small blind in chips" default:"1" env:"SMALL_BLIND"`
	BigBlind   int    `help:"Big blind in chips" default:"3" env:"BIG_BLIND"`
	BuyInBB    int    `help:"Buy-in in big blinds" default:"100" env:"BUY_IN_BB"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli, kong.Name("dragonspoker"),
		kong.Description("Multi-seat no-limit hold'em cash table server."))

	level, err := log.ParseLevel(cli.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	store, err := earnings.NewStoreFromEnv(logger)
	if err != nil {
		logger.Fatal("earnings store init failed", "err", err)
	}
	defer store.Close()

	allow := allowlist.NewStoreFromEnv(logger)

	cfg := holdem.DefaultConfig()
	cfg.TableID = cli.TableID
	cfg.MaxPlayers = cli.MaxPlayers
	cfg.SmallBlind = cli.SmallBlind
	cfg.BigBlind = cli.BigBlind
	cfg.BuyInBB = cli.BuyInBB
	cfg.SaveEarnings = store.Enabled()
	table, err := holdem.NewTable(cfg)
	if err != nil {
		logger.Fatal("bad table config", "err", err)
	}

	h := hub.New(hub.Config{
		AllowedOrigins: splitOrigins(cli.AllowedOrigins),
	}, table, store, allow, logger, quartz.NewReal())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/earnings", earningsHandler(store))

	addr := cli.Addr
	if cli.Port != "" {
		addr = ":" + cli.Port
	}
	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("listening", "addr", addr, "table", cfg.TableID,
			"earnings", store.Enabled())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
	kctx.Exit(0)
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func earningsHandler(store earnings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			http.Error(w, "email query parameter required", http.StatusBadRequest)
			return
		}
		stats, err := store.Get(r.Context(), email)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	}
}
