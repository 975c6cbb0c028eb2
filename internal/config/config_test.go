package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr() != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Addr())
	}
	if cfg.Server.ReadTimeout != 15*time.Second || cfg.Server.IdleTimeout != 60*time.Second {
		t.Errorf("unexpected server timeouts: %+v", cfg.Server)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "./data/markers.db" {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Auth.Enabled {
		t.Error("expected auth to be disabled by default")
	}
	if cfg.Auth.SessionTTL != 24*time.Hour || cfg.Auth.CookieName != "mymap_session" {
		t.Errorf("unexpected auth config: %+v", cfg.Auth)
	}
	if len(cfg.Server.CORSAllowedOrigins) != 1 || cfg.Server.CORSAllowedOrigins[0] != "*" {
		t.Errorf("unexpected cors origins: %v", cfg.Server.CORSAllowedOrigins)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("unexpected metrics config: %+v", cfg.Metrics)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MYMAP_SERVER_PORT", "9000")
	t.Setenv("MYMAP_SERVER_READ_TIMEOUT", "30s")
	t.Setenv("MYMAP_SERVER_CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("MYMAP_AUTH_ENABLED", "true")
	t.Setenv("MYMAP_AUTH_SECRET_KEY", "s3cret")
	t.Setenv("MYMAP_AUTH_MIN_PASSWORD_LENGTH", "8")
	t.Setenv("MYMAP_LOGGING_LEVEL", "DEBUG")
	t.Setenv("MYMAP_METRICS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected 30s read timeout, got %s", cfg.Server.ReadTimeout)
	}
	if got := cfg.Server.CORSAllowedOrigins; len(got) != 2 || got[1] != "http://b.example" {
		t.Errorf("unexpected cors origins: %v", got)
	}
	if !cfg.Auth.Enabled || cfg.Auth.SecretKey != "s3cret" || cfg.Auth.MinPasswordLength != 8 {
		t.Errorf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics to be disabled")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "auth without secret",
			env:  map[string]string{"MYMAP_AUTH_ENABLED": "true"},
			want: "SecretKey",
		},
		{
			name: "postgres without dsn",
			env:  map[string]string{"MYMAP_DATABASE_DRIVER": "postgres"},
			want: "DSN",
		},
		{
			name: "unknown driver",
			env:  map[string]string{"MYMAP_DATABASE_DRIVER": "mysql"},
			want: "Driver",
		},
		{
			name: "unknown log format",
			env:  map[string]string{"MYMAP_LOGGING_FORMAT": "xml"},
			want: "Format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadProductionDefaults(t *testing.T) {
	t.Setenv("MYMAP_PRIMARY_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production environment")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json logs in production, got %s", cfg.Logging.Format)
	}
	if !cfg.Auth.CookieSecure {
		t.Error("expected secure cookies in production")
	}

	t.Setenv("MYMAP_LOGGING_FORMAT", "text")
	t.Setenv("MYMAP_AUTH_COOKIE_SECURE", "false")

	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Format != "text" || cfg.Auth.CookieSecure {
		t.Errorf("explicit settings must win in production, got format=%s secure=%v", cfg.Logging.Format, cfg.Auth.CookieSecure)
	}
}
