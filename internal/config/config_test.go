package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quaybank/teller/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.BaseURL)
	require.Equal(t, "./data", cfg.DataFolder)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, "file", cfg.Session.Backend)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teller.yaml")
	content := `
base_url: https://bank.example.com
data_folder: /var/lib/teller
request_timeout: 10s
session:
  backend: redis
  redis:
    addr: localhost:6379
    db: 2
    prefix: "teller:"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://bank.example.com", cfg.BaseURL)
	require.Equal(t, "/var/lib/teller", cfg.DataFolder)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.Equal(t, "redis", cfg.Session.Backend)
	require.Equal(t, "localhost:6379", cfg.Session.Redis.Addr)
	require.Equal(t, 2, cfg.Session.Redis.DB)
	require.Equal(t, "teller:", cfg.Session.Redis.Prefix)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teller.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://file.example.com\n"), 0o600))

	t.Setenv("TELLER_BASE_URL", "https://env.example.com")
	t.Setenv("TELLER_SESSION_BACKEND", "memory")
	t.Setenv("TELLER_REQUEST_TIMEOUT", "5s")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.BaseURL)
	require.Equal(t, "memory", cfg.Session.Backend)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestRequestTimeoutSeconds(t *testing.T) {
	t.Setenv("TELLER_REQUEST_TIMEOUT", "15")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestRedisBackendRequiresAddr(t *testing.T) {
	t.Setenv("TELLER_SESSION_BACKEND", "redis")

	_, err := config.Load("")
	require.Error(t, err)
}

func TestUnknownBackendRejected(t *testing.T) {
	t.Setenv("TELLER_SESSION_BACKEND", "sqlite")

	_, err := config.Load("")
	require.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TELLER_TEST_VAR", "set")
	require.Equal(t, "set", config.GetEnv("TELLER_TEST_VAR", "fallback"))
	require.Equal(t, "fallback", config.GetEnv("TELLER_TEST_VAR_MISSING", "fallback"))
}
