package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoad_DefaultsWithSecretFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BCryptCost)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Empty(t, cfg.Users)
}

func TestLoad_MissingSecretFailsFast(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load(t.TempDir())
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_FileAndEnvOverlay(t *testing.T) {
	dir := writeConfig(t, `
port: "9090"
log:
  level: debug
auth:
  token_ttl: 2h
  bcrypt_cost: 4
store:
  backend: sqlite
  sqlite_path: /tmp/auth.db
http:
  allowed_origins:
    - http://localhost:3000
users:
  - id: 7
    name: Jane Roe
    email: jane@example.com
    avatar_url: https://i.pravatar.cc/150?img=7
    password: hunter2
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "7070")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 4, cfg.Auth.BCryptCost)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.AllowedOrigins)
	require.Len(t, cfg.Users, 1)
	assert.Equal(t, 7, cfg.Users[0].ID)
	assert.Equal(t, "jane@example.com", cfg.Users[0].Email)
	assert.Equal(t, "https://i.pravatar.cc/150?img=7", cfg.Users[0].AvatarURL)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := writeConfig(t, "port: [unterminated")
	t.Setenv("JWT_SECRET", "x")

	_, err := Load(dir)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Auth:  AuthConfig{JWTSecret: "k", TokenTTL: time.Hour, BCryptCost: bcrypt.MinCost},
			Store: StoreConfig{Backend: BackendMemory},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, true},
		{"cost too low", func(c *Config) { c.Auth.BCryptCost = 1 }, true},
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }, true},
		{"sqlite without path", func(c *Config) { c.Store.Backend = BackendSQLite }, true},
		{"sqlite with path", func(c *Config) { c.Store.Backend = BackendSQLite; c.Store.SQLitePath = ":memory:" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
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

func TestString_MasksSecret(t *testing.T) {
	cfg := Config{Auth: AuthConfig{JWTSecret: "super-secret"}}
	assert.NotContains(t, cfg.String(), "super-secret")
}
