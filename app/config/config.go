// Package config loads process-wide settings once at start-up. Values come
// from defaults, then the TOML file, then BLOG_* environment variables
// (optionally read from a .env file). Command-line flags are applied last by
// the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPath    = "config.toml"
	DefaultEnvFile = ".env"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"readTimeout"`
	WriteTimeout    time.Duration `toml:"writeTimeout"`
	ShutdownTimeout time.Duration `toml:"shutdownTimeout"`
}

type StorageConfig struct {
	// Driver is "badger" or "sqlite".
	Driver    string `toml:"driver"`
	Path      string `toml:"path"`
	BackupDir string `toml:"backupDir"`
}

type AuthConfig struct {
	SessionTTL   time.Duration `toml:"sessionTTL"`
	CookieName   string        `toml:"cookieName"`
	SecureCookie bool          `toml:"secureCookie"`
	BcryptCost   int           `toml:"bcryptCost"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver:    "badger",
			Path:      "data/blog.db",
			BackupDir: "data/backups",
		},
		Auth: AuthConfig{
			SessionTTL: 14 * 24 * time.Hour,
			CookieName: "sessionid",
			BcryptCost: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error. The env file, when present, is loaded before BLOG_* variables
// are applied; variables already set in the environment win over it.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"BLOG_ADDR":           &c.Server.Addr,
		"BLOG_STORAGE_DRIVER": &c.Storage.Driver,
		"BLOG_STORAGE_PATH":   &c.Storage.Path,
		"BLOG_BACKUP_DIR":     &c.Storage.BackupDir,
		"BLOG_COOKIE_NAME":    &c.Auth.CookieName,
		"BLOG_LOG_LEVEL":      &c.Log.Level,
		"BLOG_LOG_FORMAT":     &c.Log.Format,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"BLOG_SESSION_TTL":        &c.Auth.SessionTTL,
		"BLOG_SHUTDOWN_TIMEOUT":   &c.Server.ShutdownTimeout,
		"BLOG_HTTP_READ_TIMEOUT":  &c.Server.ReadTimeout,
		"BLOG_HTTP_WRITE_TIMEOUT": &c.Server.WriteTimeout,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	if v, ok := os.LookupEnv("BLOG_SECURE_COOKIE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BLOG_SECURE_COOKIE: %w", err)
		}
		c.Auth.SecureCookie = b
	}
	if v, ok := os.LookupEnv("BLOG_BCRYPT_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BLOG_BCRYPT_COST: %w", err)
		}
		c.Auth.BcryptCost = n
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "badger", "sqlite":
	default:
		return fmt.Errorf("storage.driver must be badger or sqlite, got %q", c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return errors.New("storage.path is required")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("auth.sessionTTL must be positive")
	}
	if c.Auth.CookieName == "" {
		return errors.New("auth.cookieName is required")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Apply sets the level and formatter of logger.
func (l LogConfig) Apply(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	if l.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
