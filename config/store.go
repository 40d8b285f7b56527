package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StoreBackend selects the credential store implementation.
type StoreBackend string

const (
	// StoreBackendFile keeps credentials in files under StoreConfig.Dir.
	StoreBackendFile StoreBackend = "file"
	// StoreBackendRedis keeps credentials in Redis (shared kiosks, multi-host setups).
	StoreBackendRedis StoreBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreBackend.
func (b *StoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "file", "redis":
		*b = StoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreBackend: %q (valid options: file, redis)", v)
	}
}

// StoreConfig contains credential store configuration.
type StoreConfig struct {
	Backend StoreBackend `env:"BACKEND" envDefault:"file"`

	// Dir is the directory used by the file backend. Defaults to ~/.timeclock.
	Dir string `env:"DIR"`

	// Profile namespaces credentials so several accounts can coexist.
	Profile string `env:"PROFILE" envDefault:"default"`

	// KeyPrefix is the Redis key prefix; the profile is appended.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"timeclock:"`
}

// Sanitize applies guardrails to store configuration values.
func (s *StoreConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = StoreBackendFile
	}
	s.Profile = strings.TrimSpace(s.Profile)
	if s.Profile == "" {
		s.Profile = "default"
	}
	s.Dir = strings.TrimSpace(s.Dir)
	if s.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.Dir = filepath.Join(home, ".timeclock")
		} else {
			s.Dir = ".timeclock"
		}
	}
	if s.Profile != "default" {
		s.Dir = filepath.Join(s.Dir, s.Profile)
	}
}

// RedisPrefix returns the key prefix for the configured profile.
func (s *StoreConfig) RedisPrefix() string {
	return s.KeyPrefix + s.Profile + ":"
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}
