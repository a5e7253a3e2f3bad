package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/tripboard/board"
	"github.com/danielhkuo/tripboard/cliparse"
	"github.com/danielhkuo/tripboard/db"
	"github.com/danielhkuo/tripboard/metrics"
	"github.com/danielhkuo/tripboard/middleware"
	"github.com/danielhkuo/tripboard/remote"
	"github.com/danielhkuo/tripboard/remote/rest"
	"github.com/danielhkuo/tripboard/remote/sqlstore"
	"github.com/danielhkuo/tripboard/router"
	"github.com/danielhkuo/tripboard/session"
	"github.com/danielhkuo/tripboard/trip"
)

func main() {
	command, args := "serve", os.Args[1:]
	if len(args) > 0 && (args[0] == "serve" || args[0] == "seed") {
		command, args = args[0], args[1:]
	}

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	t, err := trip.Load(cfg.TripFile)
	if err != nil {
		slog.Error("trip definition invalid", "error", err)
		os.Exit(1)
	}

	if command == "seed" {
		if err := seed(cfg, t); err != nil {
			slog.Error("seed failed", "error", err)
			os.Exit(1)
		}
		return
	}

	client, closeClient, err := openRemote(cfg)
	if err != nil {
		slog.Error("remote store unavailable", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer closeClient()

	m := metrics.New()
	b := board.New(client, t.Options, board.WithTimeout(cfg.RemoteTimeout), board.WithMetrics(m))
	defer b.Close()

	// Nothing to show without the roster
	loadCtx, cancel := context.WithTimeout(context.Background(), cfg.RemoteTimeout)
	err = b.Load(loadCtx)
	cancel()
	if err != nil {
		slog.Error("initial load failed", "error", err)
		b.Close()
		os.Exit(1)
	}

	// Create router
	mux := router.NewRouter(b, session.NewManager(cfg.SessionSalt), m, t.Title)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins, mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "backend", cfg.Backend, "trip", t.Title)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openRemote builds the participant store for cfg.Backend.
func openRemote(cfg cliparse.Config) (remote.Client, func(), error) {
	switch cfg.Backend {
	case cliparse.BackendREST:
		c, err := rest.New(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable, nil)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	default:
		dialect, err := db.ParseDialect(cfg.DatabaseType)
		if err != nil {
			return nil, nil, err
		}
		conn, err := db.Open(dialect, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.CreateSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		slog.Info("Database schema ready", "dialect", dialect)
		return sqlstore.New(conn, dialect), func() { conn.Close() }, nil
	}
}

// seed writes the trip roster into an empty participants table.
func seed(cfg cliparse.Config, t trip.Trip) error {
	if cfg.Backend != cliparse.BackendSQL {
		return fmt.Errorf("seed needs the %s backend, got %s", cliparse.BackendSQL, cfg.Backend)
	}

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return err
	}
	conn, err := db.Open(dialect, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		return err
	}

	n, err := db.SeedRoster(context.Background(), conn, dialect, t.Roster)
	if err != nil {
		return err
	}
	slog.Info("roster seeded", "inserted", n, "roster", len(t.Roster))
	return nil
}
