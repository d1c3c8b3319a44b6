package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SWEETSHOP_CONFIG", "")
	t.Setenv("SWEETSHOP_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DefaultTokenTTL, cfg.TokenTTL)
	assert.Equal(t, DefaultBcryptCost, cfg.BcryptCost)
	assert.Empty(t, cfg.DBDSN)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweetshop.yaml")
	data := []byte("http_addr: \":9000\"\ntoken_ttl: 2h\nbcrypt_cost: 10\nlog_level: debug\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("SWEETSHOP_CONFIG", path)
	t.Setenv("SWEETSHOP_HTTP_ADDR", ":9100")
	t.Setenv("SWEETSHOP_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_BadEnvValues(t *testing.T) {
	t.Setenv("SWEETSHOP_CONFIG", "")

	t.Run("ttl", func(t *testing.T) {
		t.Setenv("SWEETSHOP_TOKEN_TTL", "ten hours")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("cost", func(t *testing.T) {
		t.Setenv("SWEETSHOP_BCRYPT_COST", "strong")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := defaults()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }, true},
		{"cost too low", func(c *Config) { c.BcryptCost = 3 }, true},
		{"cost too high", func(c *Config) { c.BcryptCost = 32 }, true},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"long secret", func(c *Config) { c.JWTSecret = "0123456789abcdef0123456789abcdef" }, false},
		{"empty addr", func(c *Config) { c.HTTPAddr = "" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
