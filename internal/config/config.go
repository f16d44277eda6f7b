// Package config resolves server settings from defaults and JOBBOOK_*
// environment variables. Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds everything the server needs at start-up.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Session SessionConfig
	Log     LogConfig
}

type ServerConfig struct {
	Addr string
	// MetricsAddr serves /metrics on a separate listener; empty disables it.
	MetricsAddr string
}

type StorageConfig struct {
	// DataDir holds jobs.json and settings.json.
	DataDir string
	// DBPath is the client database; empty means clients.db inside DataDir.
	DBPath string
}

type SessionConfig struct {
	// Secret signs session cookies; empty means a random key per process.
	Secret string
	// TTL limits session lifetime; zero keeps sessions until logout.
	TTL          time.Duration
	SecureCookie bool
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	EnvAddr          = "JOBBOOK_ADDR"
	EnvMetricsAddr   = "JOBBOOK_METRICS_ADDR"
	EnvDataDir       = "JOBBOOK_DATA_DIR"
	EnvDBPath        = "JOBBOOK_DB_PATH"
	EnvSessionSecret = "JOBBOOK_SESSION_SECRET"
	EnvSessionTTL    = "JOBBOOK_SESSION_TTL"
	EnvSecureCookie  = "JOBBOOK_SECURE_COOKIE"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "JOBBOOK_LOG_FORMAT"
)

// ClientDBFile is the default client database name inside the data dir.
const ClientDBFile = "clients.db"

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":5000",
		},
		Storage: StorageConfig{
			DataDir: ".",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns the defaults with environment overrides applied.
func Load() (Config, error) {
	return loadWith(os.Getenv)
}

func loadWith(getenv func(string) string) (Config, error) {
	cfg := defaults()

	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Server.Addr, EnvAddr)
	setString(&cfg.Server.MetricsAddr, EnvMetricsAddr)
	setString(&cfg.Storage.DataDir, EnvDataDir)
	setString(&cfg.Storage.DBPath, EnvDBPath)
	setString(&cfg.Session.Secret, EnvSessionSecret)
	setString(&cfg.Log.Level, EnvLogLevel)
	setString(&cfg.Log.Format, EnvLogFormat)

	if raw := getenv(EnvSessionTTL); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s=%q: %w", EnvSessionTTL, raw, err)
		}
		cfg.Session.TTL = ttl
	}
	if raw := getenv(EnvSecureCookie); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s=%q: %w", EnvSecureCookie, raw, err)
		}
		cfg.Session.SecureCookie = secure
	}

	return cfg, nil
}

// Validate checks values that flags or the environment may have broken.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session ttl must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// ClientDBPath returns the client database location.
func (c Config) ClientDBPath() string {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath
	}
	return filepath.Join(c.Storage.DataDir, ClientDBFile)
}
