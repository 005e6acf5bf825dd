package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"authkit-server"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()
	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, "secretKey", cfg.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
}

func TestLoadConfig_Flags(t *testing.T) {
	withArgs(t, "-a", ":9090", "-k", "prodsecret", "-t", "15m")

	cfg := LoadConfig()
	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "prodsecret", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.TokenValidityDuration)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	body := `{"endpoint_addr":":7070","token_validity":"1h","allowed_origins":["https://app.example.com"]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	withArgs(t, "-c", path)

	cfg := LoadConfig()
	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	// fields missing from JSON keep their defaults
	assert.Equal(t, "secretKey", cfg.SecretKey)
}

func TestLoadConfig_FlagsBeatJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_addr":":7070"}`), 0o600))

	withArgs(t, "-c", path, "-a", ":6060")

	cfg := LoadConfig()
	assert.Equal(t, ":6060", cfg.EndpointAddr)
}

func TestLoadConfig_BadDurationPanics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token_validity":"soon"}`), 0o600))

	withArgs(t, "-c", path)
	require.Panics(t, func() { LoadConfig() })
}
