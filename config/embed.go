package config

import (
	"fmt"
	"strings"
)

// EmbedMode controls host frame detection.
type EmbedMode string

const (
	// EmbedModeAuto detects the host frame from the presence of the inbound channel.
	EmbedModeAuto EmbedMode = "auto"
	// EmbedModeAlways forces embedded behavior.
	EmbedModeAlways EmbedMode = "always"
	// EmbedModeNever disables the SSO handshake.
	EmbedModeNever EmbedMode = "never"
)

// UnmarshalText implements encoding.TextUnmarshaler for EmbedMode.
func (m *EmbedMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "auto", "always", "never":
		*m = EmbedMode(v)
		return nil
	default:
		return fmt.Errorf("invalid EmbedMode: %q (valid options: auto, always, never)", v)
	}
}

// EmbedConfig describes how the host frame talks to the client. The host
// passes two extra descriptors: one it writes messages to, one it reads from.
type EmbedConfig struct {
	Mode EmbedMode `env:"EMBED_MODE" envDefault:"auto"`

	// InPath carries newline-delimited JSON messages from the host.
	InPath string `env:"EMBED_IN_PATH" envDefault:"/dev/fd/3"`

	// OutPath receives newline-delimited JSON messages for the host.
	OutPath string `env:"EMBED_OUT_PATH" envDefault:"/dev/fd/4"`
}

// Sanitize applies guardrails to embed configuration values.
func (e *EmbedConfig) Sanitize() {
	if e.Mode == "" {
		e.Mode = EmbedModeAuto
	}
	e.InPath = strings.TrimSpace(e.InPath)
	e.OutPath = strings.TrimSpace(e.OutPath)
	if e.InPath == "" || e.OutPath == "" {
		e.Mode = EmbedModeNever
	}
}
