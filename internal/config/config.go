package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"session_auth/internal/models"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// Config holds all application configuration.
type Config struct {
	Port  string            `mapstructure:"port"`
	Log   LogConfig         `mapstructure:"log"`
	Auth  AuthConfig        `mapstructure:"auth"`
	Store StoreConfig       `mapstructure:"store"`
	HTTP  HTTPConfig        `mapstructure:"http"`
	Users []models.SeedUser `mapstructure:"users"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BCryptCost int           `mapstructure:"bcrypt_cost"`
}

type StoreConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.sqlite_path", "session_auth.db")
	v.SetDefault("http.read_header_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.allowed_origins", []string{})
}

// Load reads config.yml from the given directories (first match wins), overlays
// environment variables and validates the result. A missing file is not an error.
//
// Every key can be set from the environment with dots replaced by underscores
// (STORE_BACKEND, AUTH_TOKEN_TTL, ...). The signing secret is read from JWT_SECRET.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("auth.jwt_secret", "JWT_SECRET", "AUTH_JWT_SECRET"); err != nil {
		return nil, fmt.Errorf("bind JWT_SECRET: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on settings the service cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.BCryptCost < bcrypt.MinCost || c.Auth.BCryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BCryptCost)
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	return nil
}

// String returns a representation of the config with the secret and seed passwords masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, Log: %s, Store: %s(%s), TokenTTL: %s, Users: %d, Auth: *** (masked) ***}",
		c.Port, c.Log.Level, c.Store.Backend, c.Store.SQLitePath, c.Auth.TokenTTL, len(c.Users))
}
