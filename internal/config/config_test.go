package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	content := `env: test
client:
  base_url: "http://localhost:8080"
  cdn_base_url: "https://cdn.example.com"
  storage_path: "test.db"
  timeout: 3s
http_server:
  addresshttp: "localhost:8081"
  timeouthttp: 4s
  idle_timeout: 30s
jwttoken:
  jwt_secret_key: "test-secret"
  token_ttl: 1h
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg := MustLoad()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "https://cdn.example.com", cfg.CDNBaseURL)
	assert.Equal(t, "test.db", cfg.StoragePath)
	assert.Equal(t, 3*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "localhost:8081", cfg.AddressHTTP)
	assert.Equal(t, 4*time.Second, cfg.TimeoutHTTP)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "test-secret", cfg.JWTSecretKey)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}
