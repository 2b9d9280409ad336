package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Env)
	require.Equal(t, "https://ecopulse-backend.onrender.com", cfg.API.BaseURL)
	require.Equal(t, time.Duration(0), cfg.API.Timeout)
	require.Equal(t, "ecopulse.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ECOPULSE_ENV", "production")
	t.Setenv("ECOPULSE_API_URL", "http://localhost:9000")
	t.Setenv("ECOPULSE_API_TIMEOUT", "15s")
	t.Setenv("ECOPULSE_DB_PATH", ":memory:")
	t.Setenv("ECOPULSE_LOG_LEVEL", "debug")
	t.Setenv("ECOPULSE_LOG_PATH", "/tmp/ecopulse.log")
	t.Setenv("ECOPULSE_MOCK_ORIGINS", "http://localhost:5173, https://ecopulse.app,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, "http://localhost:9000", cfg.API.BaseURL)
	require.Equal(t, 15*time.Second, cfg.API.Timeout)
	require.Equal(t, ":memory:", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/tmp/ecopulse.log", cfg.Log.Path)
	require.Equal(t, []string{"http://localhost:5173", "https://ecopulse.app"}, cfg.Mock.AllowedOrigins)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("ECOPULSE_API_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ecopulse.yaml")
	data := []byte("api:\n  base_url: http://yaml.local\n  timeout: 3s\nlog:\n  level: warn\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("ECOPULSE_CONFIG_PATH", path)
	t.Setenv("ECOPULSE_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://yaml.local", cfg.API.BaseURL)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("ECOPULSE_MOCK_ADDR=127.0.0.1:9999\n"), 0o600))

	t.Setenv("ECOPULSE_ENV_FILE", path)
	// Registered so the value godotenv sets is restored after the test.
	t.Setenv("ECOPULSE_MOCK_ADDR", "")
	require.NoError(t, os.Unsetenv("ECOPULSE_MOCK_ADDR"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.Mock.Addr)
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	t.Setenv("ECOPULSE_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	require.Error(t, err)
}
