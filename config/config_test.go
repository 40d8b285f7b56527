package config

import (
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"

	domainauth "github.com/target/timeclock/internal/domain/auth"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:3000" {
		t.Fatalf("unexpected api url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("unexpected api timeout %v", cfg.API.Timeout)
	}
	if cfg.Auth.SSOTimeout != 5*time.Second {
		t.Fatalf("unexpected sso timeout %v", cfg.Auth.SSOTimeout)
	}
	if cfg.Auth.PlaceholderRole != domainauth.RoleAdmin {
		t.Fatalf("unexpected placeholder role %q", cfg.Auth.PlaceholderRole)
	}
	if cfg.Store.Backend != StoreBackendFile {
		t.Fatalf("unexpected store backend %q", cfg.Store.Backend)
	}
	if cfg.Embed.Mode != EmbedModeAuto {
		t.Fatalf("unexpected embed mode %q", cfg.Embed.Mode)
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("unexpected log level %v", cfg.Observability.LogLevel)
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("LAUNCH_URL", "timeclock://app/?token=abc")
	t.Setenv("SSO_TIMEOUT", "2s")
	t.Setenv("AUTH_PLACEHOLDER_ROLE", "user")
	t.Setenv("AUTH_CALLBACK_ADDR", "127.0.0.1:9999")
	t.Setenv("AUTH_CALLBACK_TIMEOUT", "30s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		LaunchURL:       "timeclock://app/?token=abc",
		SSOTimeout:      2 * time.Second,
		PlaceholderRole: domainauth.RoleUser,
		CallbackAddr:    "127.0.0.1:9999",
		CallbackTimeout: 30 * time.Second,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_ParseStoreEnv(t *testing.T) {
	t.Setenv("CREDENTIAL_STORE_BACKEND", "Redis")
	t.Setenv("CREDENTIAL_STORE_PROFILE", "kiosk")
	t.Setenv("REDIS_URI", "cache:6379")
	t.Setenv("REDIS_DB", "3")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.Store.Backend != StoreBackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.Store.Backend)
	}
	if got := cfg.Store.RedisPrefix(); got != "timeclock:kiosk:" {
		t.Fatalf("unexpected redis prefix %q", got)
	}
	if cfg.Redis.URI != "cache:6379" || cfg.Redis.DB != 3 {
		t.Fatalf("unexpected redis config: %#v", cfg.Redis)
	}
}

func TestAppConfig_InvalidEnums(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "store backend", key: "CREDENTIAL_STORE_BACKEND", val: "sqlite"},
		{name: "embed mode", key: "EMBED_MODE", val: "sometimes"},
		{name: "placeholder role", key: "AUTH_PLACEHOLDER_ROLE", val: "owner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			var cfg AppConfig
			if err := env.Parse(&cfg); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestAPIConfig_Sanitize(t *testing.T) {
	cfg := APIConfig{BaseURL: " https://api.example.com/ ", Timeout: 0}
	cfg.Sanitize()

	if cfg.BaseURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 15*time.Second {
		t.Fatalf("expected timeout default, got %v", cfg.Timeout)
	}

	cfg = APIConfig{BaseURL: "  "}
	cfg.Sanitize()
	if cfg.BaseURL != defaultAPIURL {
		t.Fatalf("expected default url, got %q", cfg.BaseURL)
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{PlaceholderRole: "owner"}
	cfg.Sanitize()

	if cfg.SSOTimeout != 5*time.Second {
		t.Fatalf("expected sso timeout default, got %v", cfg.SSOTimeout)
	}
	if cfg.PlaceholderRole != domainauth.RoleAdmin {
		t.Fatalf("expected admin placeholder role, got %q", cfg.PlaceholderRole)
	}
	if cfg.LaunchURL == "" || cfg.CallbackAddr == "" || cfg.CallbackTimeout <= 0 {
		t.Fatalf("expected defaults to be filled: %#v", cfg)
	}
}

func TestStoreConfig_Sanitize(t *testing.T) {
	dir := t.TempDir()

	cfg := StoreConfig{Dir: dir, Profile: " "}
	cfg.Sanitize()
	if cfg.Backend != StoreBackendFile || cfg.Profile != "default" || cfg.Dir != dir {
		t.Fatalf("unexpected sanitized store config: %#v", cfg)
	}

	cfg = StoreConfig{Dir: dir, Profile: "night-shift"}
	cfg.Sanitize()
	if cfg.Dir != filepath.Join(dir, "night-shift") {
		t.Fatalf("expected profile subdirectory, got %q", cfg.Dir)
	}
}

func TestEmbedConfig_Sanitize(t *testing.T) {
	cfg := EmbedConfig{Mode: EmbedModeAlways, InPath: " ", OutPath: "/dev/fd/4"}
	cfg.Sanitize()

	if cfg.Mode != EmbedModeNever {
		t.Fatalf("expected embedding disabled without an inbound path, got %q", cfg.Mode)
	}
}

func TestAppConfig_SanitizeDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Fatal("expected dev mode from NODE_ENV")
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug logging in dev mode, got %v", cfg.Observability.LogLevel)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.Prefix != "timeclock" {
		t.Fatalf("expected default prefix, got %q", cfg.Prefix)
	}
}
