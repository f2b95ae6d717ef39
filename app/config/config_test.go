package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "config.toml", `
[server]
addr = ":9000"
shutdownTimeout = "3s"

[storage]
driver = "sqlite"
path = "blog.sqlite"

[auth]
sessionTTL = "2h"
secureCookie = true

[log]
level = "debug"
format = "json"
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "blog.sqlite", cfg.Storage.Path)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.True(t, cfg.Auth.SecureCookie)
	assert.Equal(t, "sessionid", cfg.Auth.CookieName)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.toml", "[server]\naddr = \":9000\"\n")
	envFile := writeFile(t, ".env", "BLOG_STORAGE_DRIVER=sqlite\nBLOG_LOG_LEVEL=warn\n")

	t.Setenv("BLOG_ADDR", ":7000")
	t.Setenv("BLOG_SESSION_TTL", "30m")
	t.Setenv("BLOG_BCRYPT_COST", "4")
	t.Setenv("BLOG_LOG_LEVEL", "error")
	t.Setenv("BLOG_HTTP_READ_TIMEOUT", "5s")
	t.Setenv("BLOG_HTTP_WRITE_TIMEOUT", "45s")
	t.Cleanup(func() { os.Unsetenv("BLOG_STORAGE_DRIVER") })

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	// Variables already in the environment win over the .env file.
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		env  map[string]string
	}{
		{"malformed toml", "[server\naddr=", nil},
		{"unknown driver", "[storage]\ndriver = \"postgres\"\n", nil},
		{"bad level", "[log]\nlevel = \"loud\"\n", nil},
		{"bad format", "[log]\nformat = \"xml\"\n", nil},
		{"zero ttl", "[auth]\nsessionTTL = \"0s\"\n", nil},
		{"bad env duration", "", map[string]string{"BLOG_SESSION_TTL": "forever"}},
		{"bad env bool", "", map[string]string{"BLOG_SECURE_COOKIE": "maybe"}},
		{"bad write timeout", "", map[string]string{"BLOG_HTTP_WRITE_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, "config.toml", tt.toml), "")
			assert.Error(t, err)
		})
	}
}

func TestLogConfigApply(t *testing.T) {
	logger := logrus.New()

	require.NoError(t, LogConfig{Level: "debug", Format: "json"}.Apply(logger))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	require.NoError(t, LogConfig{Level: "warn", Format: "text"}.Apply(logger))
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	assert.Error(t, LogConfig{Level: "nope"}.Apply(logger))
}
