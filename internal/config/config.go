// Package config loads the application configuration.
//
// Defaults are layered first, then environment variables prefixed with
// MYMAP_ override them. The first underscore after the prefix separates
// the section from the key:
//
//	MYMAP_SERVER_PORT=9000      -> server.port
//	MYMAP_AUTH_SECRET_KEY=...   -> auth.secret_key
//	MYMAP_AUTH_ENABLED=true     -> auth.enabled
//
// The result is validated so the process fails fast on bad configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "MYMAP_"

// Config is the root configuration object for the application.
type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Auth     AuthConfig     `koanf:"auth"`
	Logging  LoggingConfig  `koanf:"logging" validate:"required"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
type ServerConfig struct {
	Port               string        `koanf:"port" validate:"required"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins" validate:"required,min=1"`
}

// DatabaseConfig selects the storage backend.
// Path is used by sqlite, DSN by postgres.
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=sqlite postgres"`
	Path   string `koanf:"path" validate:"required_if=Driver sqlite"`
	DSN    string `koanf:"dsn" validate:"required_if=Driver postgres"`
}

// AuthConfig controls the login and ownership features.
type AuthConfig struct {
	Enabled           bool          `koanf:"enabled"`
	SecretKey         string        `koanf:"secret_key" validate:"required_if=Enabled true"`
	SessionTTL        time.Duration `koanf:"session_ttl" validate:"gt=0"`
	CookieName        string        `koanf:"cookie_name" validate:"required"`
	CookieSecure      bool          `koanf:"cookie_secure"`
	MinPasswordLength int           `koanf:"min_password_length" validate:"gte=0"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path" validate:"required_if=Enabled true"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env": "development",

		"server.port":                 "8080",
		"server.read_timeout":         15 * time.Second,
		"server.write_timeout":        15 * time.Second,
		"server.idle_timeout":         60 * time.Second,
		"server.shutdown_timeout":     10 * time.Second,
		"server.cors_allowed_origins": []string{"*"},

		"database.driver": "sqlite",
		"database.path":   "./data/markers.db",
		"database.dsn":    "",

		"auth.enabled":             false,
		"auth.secret_key":          "",
		"auth.session_ttl":         24 * time.Hour,
		"auth.cookie_name":         "mymap_session",
		"auth.cookie_secure":       false,
		"auth.min_password_length": 0,

		"logging.level":  "info",
		"logging.format": "text",

		"metrics.enabled": true,
		"metrics.path":    "/metrics",
	}
}

// envKey maps MYMAP_AUTH_SECRET_KEY to auth.secret_key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// envValue splits list-valued keys on commas.
func envValue(s, v string) (string, interface{}) {
	key := envKey(s)
	if key == "server.cors_allowed_origins" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		return key, origins
	}
	return key, v
}

// Load builds the configuration from defaults and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load default config: %w", err)
	}

	envK := koanf.New(".")
	if err := envK.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}
	if err := k.Merge(envK); err != nil {
		return nil, fmt.Errorf("could not merge env variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	// Production switches to JSON logs and Secure cookies unless set explicitly.
	if cfg.IsProduction() {
		if !envK.Exists("logging.format") {
			cfg.Logging.Format = "json"
		}
		if !envK.Exists("auth.cookie_secure") {
			cfg.Auth.CookieSecure = true
		}
	}

	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
