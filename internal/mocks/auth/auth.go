package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore = (*MemoryCredentialStore)(nil)
	_ ports.FrameDetector   = StaticFrameDetector{}
	_ ports.Location        = (*MemoryLocation)(nil)
	_ ports.MessagePort     = (*MemoryPort)(nil)
	_ ports.SessionBridge   = (*StubBridge)(nil)
)

// MemoryCredentialStore is an in-memory credential store for unit tests.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	token string
	user  *domainauth.User

	// Err, when set, is returned by every write.
	Err error
	// Clears counts Clear calls.
	Clears int
}

// NewMemoryCredentialStore creates a store pre-populated with token and user (either may be empty).
func NewMemoryCredentialStore(token string, user *domainauth.User) *MemoryCredentialStore {
	s := &MemoryCredentialStore{token: token}
	if user != nil {
		u := *user
		s.user = &u
	}
	return s
}

func (m *MemoryCredentialStore) Token(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryCredentialStore) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.token = token
	return nil
}

func (m *MemoryCredentialStore) User(_ context.Context) (*domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

func (m *MemoryCredentialStore) SetUser(_ context.Context, user domainauth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.user = &user
	return nil
}

func (m *MemoryCredentialStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
	m.token = ""
	m.user = nil
	return nil
}

// StaticFrameDetector returns fixed detection results.
type StaticFrameDetector struct {
	Embedded bool
	Err      error
}

func (d StaticFrameDetector) IsEmbedded() (bool, error) { return d.Embedded, d.Err }

// MemoryLocation is a mutable launch URL.
type MemoryLocation struct {
	mu       sync.Mutex
	u        *url.URL
	Replaced int
}

// NewMemoryLocation parses raw; it panics on invalid input since it is only used with literals.
func NewMemoryLocation(raw string) *MemoryLocation {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return &MemoryLocation{u: u}
}

func (l *MemoryLocation) Current() *url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *l.u
	return &cp
}

func (l *MemoryLocation) Replace(u *url.URL) error {
	if u == nil {
		return errors.New("nil url")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *u
	l.u = &cp
	l.Replaced++
	return nil
}

// MemoryPort is an in-process host frame. Messages posted by the client are
// delivered on Posted; the test plays the host by calling Deliver.
type MemoryPort struct {
	mu        sync.Mutex
	listeners map[int]func(ports.HostMessage)
	nextID    int

	Posted  chan ports.HostMessage
	PostErr error
}

// NewMemoryPort creates a MemoryPort with a buffered outbound channel.
func NewMemoryPort() *MemoryPort {
	return &MemoryPort{
		listeners: make(map[int]func(ports.HostMessage)),
		Posted:    make(chan ports.HostMessage, 8),
	}
}

func (p *MemoryPort) PostMessage(_ context.Context, msg ports.HostMessage) error {
	if p.PostErr != nil {
		return p.PostErr
	}
	p.Posted <- msg
	return nil
}

func (p *MemoryPort) Subscribe(fn func(ports.HostMessage)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.listeners, id)
		})
	}
}

// Deliver sends msg from the host to every current listener.
func (p *MemoryPort) Deliver(msg ports.HostMessage) {
	p.mu.Lock()
	fns := make([]func(ports.HostMessage), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(msg)
	}
}

// Listeners returns the number of registered listeners.
func (p *MemoryPort) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

// StubBridge returns canned SSO results.
type StubBridge struct {
	Payload json.RawMessage
	Err     error
	Calls   int
}

func (b *StubBridge) RequestSession(_ context.Context) (json.RawMessage, error) {
	b.Calls++
	return b.Payload, b.Err
}
