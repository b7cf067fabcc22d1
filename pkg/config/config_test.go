package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load("bomahub", "")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "bomahub_session", cfg.Session.CookieName)
	assert.Equal(t, "bomahub", cfg.Metrics.Prefix)
	assert.True(t, cfg.Security.CSRF)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("SESSION_RECHECK_INTERVAL", "30s")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("LOGIN_RATE_PER_MINUTE", "not-a-number")

	cfg, err := Load("bomahub", "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 30*time.Second, cfg.Session.RecheckInterval)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
	assert.Equal(t, 10, cfg.Security.LoginRatePerMinute)
}

func TestLoadYAMLOverlay(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "bomahub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
  env: production
api:
  base_url: http://backend:8081
session:
  store: sqlite
  ttl: 2h
  signing_key: rotate-me-in-vault
db:
  sqlite_path: /tmp/sessions.db
  log_level: error
security:
  csrf: false
  trusted_proxies: ["10.0.0.0/8", "192.168.1.7"]
`), 0o600))
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := Load("bomahub", path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "environment wins over file")
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "http://backend:8081", cfg.API.BaseURL)
	assert.Equal(t, "sqlite", cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "/tmp/sessions.db", cfg.DB.SQLitePath)
	assert.Equal(t, logger.Error, cfg.DB.LogLevel)
	assert.False(t, cfg.Security.CSRF)
	assert.Equal(t, "bomahub_session", cfg.Session.CookieName, "unset keys keep defaults")

	nets, err := cfg.TrustedProxyNets()
	require.NoError(t, err)
	require.Len(t, nets, 2)
	assert.Equal(t, "10.0.0.0/8", nets[0].String())
	assert.Equal(t, "192.168.1.7/32", nets[1].String())
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	_, err := Load("bomahub", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "not found")

	t.Setenv("SESSION_STORE", "etcd")
	_, err = Load("bomahub", "")
	assert.ErrorContains(t, err, "unknown session store")
}

func TestValidateProductionSigningKey(t *testing.T) {
	cfg := Default("bomahub")
	cfg.Server.Env = "production"
	assert.ErrorContains(t, cfg.Validate(), "SESSION_SIGNING_KEY must be changed")

	cfg.Session.SigningKey = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	dev := Default("bomahub")
	assert.NoError(t, dev.Validate(), "the default key is fine outside production")
}

func TestTrustedProxiesFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TRUSTED_PROXIES", " 172.16.0.0/12, ,::1 ")
	cfg, err := Load("bomahub", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"172.16.0.0/12", "::1"}, cfg.Security.TrustedProxies)

	nets, err := cfg.TrustedProxyNets()
	require.NoError(t, err)
	assert.Equal(t, "::1/128", nets[1].String())

	t.Setenv("TRUSTED_PROXIES", "not-an-ip")
	_, err = Load("bomahub", "")
	assert.ErrorContains(t, err, "invalid trusted proxy")
}

func TestGetDSN(t *testing.T) {
	db := Default("bomahub").DB
	assert.Equal(t, "host=localhost port=5432 user=postgres password=password dbname=bomahub sslmode=disable", db.GetDSN())
}
