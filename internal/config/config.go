package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage backends for add-on metadata.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// AddonServer holds all configuration for the add-on server.
type AddonServer struct {
	LogLevel string `yaml:"log_level" env:"ADDON_LOG_LEVEL"`

	Storage   StorageConfig   `yaml:"storage"`
	Addon     AddonConfig     `yaml:"addon"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StorageConfig selects where add-on metadata lives.
// memory keeps it on the items only (lost on restart).
type StorageConfig struct {
	Backend  string         `yaml:"backend" env:"ADDON_STORAGE_BACKEND"`
	Database DatabaseConfig `yaml:"database"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Redis    RedisConfig    `yaml:"redis"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"ADDON_DB_HOST"`
	Port     int    `yaml:"port" env:"ADDON_DB_PORT"`
	User     string `yaml:"user" env:"ADDON_DB_USER"`
	Password string `yaml:"password" env:"ADDON_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"ADDON_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"ADDON_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// SQLiteConfig holds the embedded database file location.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"ADDON_SQLITE_PATH"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addrs    []string `yaml:"addrs" env:"ADDON_REDIS_ADDRS" envSeparator:","`
	Password string   `yaml:"password" env:"ADDON_REDIS_PASSWORD"`
	DB       int      `yaml:"db" env:"ADDON_REDIS_DB"`
}

// AddonConfig tunes rolling and the refresh job.
type AddonConfig struct {
	// Effects is the configured roll pool. Unknown names are dropped at load.
	// Absent means every known effect once; an explicit empty list disables rolling.
	Effects []string `yaml:"effects" env:"ADDON_EFFECTS" envSeparator:","`

	MaxSlots        int           `yaml:"max_slots" env:"ADDON_MAX_SLOTS"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"ADDON_REFRESH_INTERVAL"`
	InitialDelay    time.Duration `yaml:"initial_delay" env:"ADDON_INITIAL_DELAY"`
	StatusGrace     time.Duration `yaml:"status_grace" env:"ADDON_STATUS_GRACE"`

	// Token handling
	TokenItemID int32         `yaml:"token_item_id" env:"ADDON_TOKEN_ITEM_ID"`
	Cooldown    time.Duration `yaml:"cooldown" env:"ADDON_COOLDOWN"`
	Messages    Messages      `yaml:"messages"`
}

// Messages are the player-facing templates.
// Placeholders: {effect} {level} {slots} {max} {reason}.
type Messages struct {
	Success  string `yaml:"success"`
	Fail     string `yaml:"fail"`
	NotArmor string `yaml:"not_armor"`
}

// TelemetryConfig configures OTLP/HTTP trace export. An empty endpoint disables export.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" env:"ADDON_SERVICE_NAME"`
	Endpoint    string `yaml:"endpoint" env:"ADDON_OTLP_ENDPOINT"` // e.g. http://localhost:4318
}

// DefaultAddonServer returns AddonServer config with sensible defaults.
func DefaultAddonServer() AddonServer {
	return AddonServer{
		LogLevel: "info",
		Storage: StorageConfig{
			Backend: BackendMemory,
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "addons",
				Password: "addons",
				DBName:   "addons",
				SSLMode:  "disable",
			},
			SQLite: SQLiteConfig{Path: "data/addons.db"},
			Redis:  RedisConfig{Addrs: []string{"127.0.0.1:6379"}},
		},
		Addon: AddonConfig{
			MaxSlots:        3,
			RefreshInterval: 2 * time.Second,
			InitialDelay:    time.Second,
			StatusGrace:     time.Second,
			TokenItemID:     9001,
			Cooldown:        250 * time.Millisecond,
			Messages: Messages{
				Success:  "The armor absorbs the add-on: {effect} ({slots}/{max}).",
				Fail:     "The add-on fails to bind: {reason}",
				NotArmor: "Hold the token while targeting a piece of armor.",
			},
		},
		Telemetry: TelemetryConfig{ServiceName: "addonserver"},
	}
}

// LoadAddonServer loads add-on server config from a YAML file, then applies
// ADDON_* environment overrides. If the file doesn't exist, defaults are used.
func LoadAddonServer(path string) (AddonServer, error) {
	cfg := DefaultAddonServer()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields that have a matching environment variable set.
func ApplyEnv(cfg *AddonServer) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c AddonServer) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case BackendMemory, BackendPostgres, BackendRedis:
	case BackendSQLite:
		if c.Storage.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.sqlite.path is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}
	if c.Storage.Backend == BackendRedis && len(c.Storage.Redis.Addrs) == 0 {
		errs = append(errs, errors.New("storage.redis.addrs is required"))
	}

	if c.Addon.MaxSlots < 0 {
		errs = append(errs, fmt.Errorf("addon.max_slots must not be negative, got %d", c.Addon.MaxSlots))
	}
	if c.Addon.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("addon.refresh_interval must be positive, got %s", c.Addon.RefreshInterval))
	}
	if c.Addon.InitialDelay < 0 {
		errs = append(errs, fmt.Errorf("addon.initial_delay must not be negative, got %s", c.Addon.InitialDelay))
	}
	// Статус должен пережить хотя бы один цикл обновления.
	if c.Addon.StatusGrace <= 0 {
		errs = append(errs, fmt.Errorf("addon.status_grace must be positive, got %s", c.Addon.StatusGrace))
	}
	if c.Addon.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("addon.cooldown must not be negative, got %s", c.Addon.Cooldown))
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLogLevel maps a config string to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
