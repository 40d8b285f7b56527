package hostframe

import (
	"errors"
	"io/fs"
	"os"

	"github.com/target/timeclock/config"
	"github.com/target/timeclock/internal/ports"
)

var _ ports.FrameDetector = (*Detector)(nil)

// Detector decides whether the client runs inside a host frame.
type Detector struct {
	mode   config.EmbedMode
	inPath string
	stat   func(string) (fs.FileInfo, error)
}

// NewDetector creates a Detector for cfg.
func NewDetector(cfg config.EmbedConfig) *Detector {
	return &Detector{mode: cfg.Mode, inPath: cfg.InPath, stat: os.Stat}
}

// IsEmbedded reports whether the host's inbound descriptor is present. A stat
// failure other than "not exist" is returned so the caller can treat the
// ambiguous case as embedded.
func (d *Detector) IsEmbedded() (bool, error) {
	switch d.mode {
	case config.EmbedModeAlways:
		return true, nil
	case config.EmbedModeNever:
		return false, nil
	}
	if d.inPath == "" {
		return false, nil
	}
	if _, err := d.stat(d.inPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
