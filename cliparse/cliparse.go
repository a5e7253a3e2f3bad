package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backends
const (
	BackendSQL  = "sql"
	BackendREST = "rest"
)

const DefaultRemoteTimeout = 10 * time.Second

type Config struct {
	Port          int           `env:"PORT" envDefault:"3318"`
	Backend       string        `env:"BACKEND" envDefault:"sql"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	DatabaseType  string        `env:"DATABASE_TYPE" envDefault:"sqlite"`
	SupabaseURL   string        `env:"SUPABASE_URL"`
	SupabaseKey   string        `env:"SUPABASE_ANON_KEY"`
	SupabaseTable string        `env:"SUPABASE_TABLE" envDefault:"participants"`
	SessionSalt   string        `env:"SESSION_SALT"`
	TripFile      string        `env:"TRIP_FILE"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"10s"`

	// Browser origins allowed to call the API with the session cookie
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// LoadDotEnv loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ParseFlags reads the environment, then lets CLI flags override it
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("tripboard", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "Remote store backend (sql or rest)")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.TripFile, "trip", cfg.TripFile, "Trip definition YAML (default: built-in)")
	fs.DurationVar(&cfg.RemoteTimeout, "remote-timeout", cfg.RemoteTimeout, "Timeout for each remote update")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", cfg.SessionSalt, "Session cookie salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	switch cfg.Backend {
	case BackendSQL:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
			return Config{}, fmt.Errorf("invalid database type %q (sqlite or postgres)", cfg.DatabaseType)
		}
	case BackendREST:
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return Config{}, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY required for the rest backend")
		}
	default:
		return Config{}, fmt.Errorf("invalid backend %q (sql or rest)", cfg.Backend)
	}

	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = DefaultRemoteTimeout
	}

	// Secrets - MUST be provided
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	return cfg, nil
}
