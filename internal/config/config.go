package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig selects level and output format (console or json).
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig holds session settings.
type AuthConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// IngestConfig controls statement uploads.
type IngestConfig struct {
	AutoApprove bool     `mapstructure:"auto_approve"`
	DateFormats []string `mapstructure:"date_formats"`
}

// ReconcileConfig controls reconciliation reports.
type ReconcileConfig struct {
	SampleLimit int `mapstructure:"sample_limit"`
}

// DefaultDateFormats are tried in order after ISO dates.
var DefaultDateFormats = []string{
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"02-Jan-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"20060102",
}

// Load reads configuration from file and env. Env var overrides use prefix FINSIGHT_.
// An explicit path (or FINSIGHT_CONFIG) must exist; the default location is optional.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origin", "*")
	v.SetDefault("server.max_upload_bytes", int64(10<<20))
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "finsight", "finsight.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("auth.session_ttl", 720*time.Hour)
	v.SetDefault("ingest.auto_approve", true)
	v.SetDefault("ingest.date_formats", DefaultDateFormats)
	v.SetDefault("reconcile.sample_limit", 20)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("FINSIGHT_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "finsight"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FINSIGHT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the rest of the app cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("config: database.path is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format must be console or json, got %q", c.Log.Format)
	}
	if c.Reconcile.SampleLimit <= 0 {
		return fmt.Errorf("config: reconcile.sample_limit must be positive, got %d", c.Reconcile.SampleLimit)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("config: auth.session_ttl must be positive, got %s", c.Auth.SessionTTL)
	}
	return nil
}
