// Package hostframe connects the client to the platform that embeds it. The
// host launches the client with an inbound and an outbound descriptor and
// exchanges newline-delimited JSON messages over them.
package hostframe

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/target/timeclock/config"
	"github.com/target/timeclock/internal/ports"
)

const maxMessageSize = 1 << 20

var _ ports.MessagePort = (*Port)(nil)

// Port is a ports.MessagePort over a pair of streams.
type Port struct {
	in     io.ReadCloser
	out    io.WriteCloser
	logger *slog.Logger

	writeMu sync.Mutex

	mu        sync.Mutex
	listeners map[uint64]func(ports.HostMessage)
	nextID    uint64

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

// PortOptions configures a Port.
type PortOptions struct {
	In     io.ReadCloser
	Out    io.WriteCloser
	Logger *slog.Logger
}

// NewPort creates a Port. Call Start to begin dispatching inbound messages.
func NewPort(opts PortOptions) *Port {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Port{
		in:        opts.In,
		out:       opts.Out,
		logger:    logger.With("component", "hostframe"),
		listeners: make(map[uint64]func(ports.HostMessage)),
		done:      make(chan struct{}),
	}
}

// Open opens the descriptors named in cfg and starts dispatching.
func Open(ctx context.Context, cfg config.EmbedConfig, logger *slog.Logger) (*Port, error) {
	in, err := os.Open(cfg.InPath)
	if err != nil {
		return nil, fmt.Errorf("open host inbound %s: %w", cfg.InPath, err)
	}
	out, err := os.OpenFile(cfg.OutPath, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("open host outbound %s: %w", cfg.OutPath, err)
	}
	p := NewPort(PortOptions{In: in, Out: out, Logger: logger})
	p.Start(ctx)
	return p, nil
}

// Start launches the read loop. It is safe to call more than once.
func (p *Port) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		go p.readLoop(ctx)
	})
}

// Done is closed when the read loop exits.
func (p *Port) Done() <-chan struct{} { return p.done }

func (p *Port) readLoop(ctx context.Context) {
	defer close(p.done)

	sc := bufio.NewScanner(p.in)
	sc.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg ports.HostMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			p.logger.WarnContext(ctx, "skipping undecodable host message", "error", err)
			continue
		}
		p.dispatch(msg)
	}
	if err := sc.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		p.logger.WarnContext(ctx, "host inbound stream failed", "error", err)
	}
}

func (p *Port) dispatch(msg ports.HostMessage) {
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

// PostMessage writes msg as a single JSON line.
func (p *Port) PostMessage(ctx context.Context, msg ports.HostMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal host message: %w", err)
	}
	data = append(data, '\n')

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if _, err := p.out.Write(data); err != nil {
		return fmt.Errorf("post host message: %w", err)
	}
	return nil
}

// Subscribe registers fn for every inbound message. The returned function
// removes it and may be called any number of times.
func (p *Port) Subscribe(fn func(ports.HostMessage)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// Listeners returns the number of active subscriptions.
func (p *Port) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

// Close closes both streams, which also ends the read loop.
func (p *Port) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = errors.Join(p.in.Close(), p.out.Close())
	})
	return err
}
