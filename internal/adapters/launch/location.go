// Package launch models the URL the client was opened with and the loopback
// receiver the login command uses to obtain one.
package launch

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/target/timeclock/internal/ports"
)

var _ ports.Location = (*Location)(nil)

// Location holds the current launch URL. Replace mutates it in place so a
// later bootstrap run in the same process sees the stripped URL.
type Location struct {
	mu sync.RWMutex
	u  *url.URL
}

// NewLocation parses raw into a Location.
func NewLocation(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse launch url: %w", err)
	}
	return &Location{u: u}, nil
}

// Current returns a copy of the launch URL.
func (l *Location) Current() *url.URL {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := *l.u
	return &cp
}

// Replace swaps the launch URL.
func (l *Location) Replace(u *url.URL) error {
	if u == nil {
		return errors.New("launch url is required")
	}
	cp := *u
	l.mu.Lock()
	l.u = &cp
	l.mu.Unlock()
	return nil
}

// String returns the current URL.
func (l *Location) String() string {
	return l.Current().String()
}
