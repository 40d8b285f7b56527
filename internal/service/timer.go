package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ZeroElapsed is the display shown when no session is active.
const ZeroElapsed = "00:00:00"

// FormatElapsed renders d as zero-padded HH:MM:SS. Hours are not capped;
// negative durations render as zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// ElapsedTimerOptions groups dependencies for ElapsedTimer.
type ElapsedTimerOptions struct {
	Clock clockwork.Clock // Optional: defaults to the real clock
	// OnTick receives every display update. It runs on the timer goroutine
	// and must not call Reset or Stop.
	OnTick func(display string)
}

// ElapsedTimer shows the time since a start instant, refreshed every second.
// Each tick reads the clock afresh, so a missed or late tick is corrected on
// the next one.
type ElapsedTimer struct {
	clock  clockwork.Clock
	onTick func(string)

	// resetMu serializes Reset and Stop.
	resetMu sync.Mutex

	mu      sync.Mutex
	display string
	stop    chan struct{}
	done    chan struct{}
}

// NewElapsedTimer constructs a stopped ElapsedTimer showing ZeroElapsed.
func NewElapsedTimer(opts ElapsedTimerOptions) *ElapsedTimer {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ElapsedTimer{
		clock:   clock,
		onTick:  opts.OnTick,
		display: ZeroElapsed,
	}
}

// Reset stops the running ticker, if any, and starts counting from start.
// A nil start leaves the timer stopped at ZeroElapsed.
func (t *ElapsedTimer) Reset(start *time.Time) {
	t.resetMu.Lock()
	defer t.resetMu.Unlock()

	t.halt()
	if start == nil {
		t.set(ZeroElapsed)
		return
	}

	origin := *start
	ticker := t.clock.NewTicker(time.Second)
	stop := make(chan struct{})
	done := make(chan struct{})

	t.mu.Lock()
	t.stop, t.done = stop, done
	t.mu.Unlock()

	t.set(FormatElapsed(t.clock.Since(origin)))
	go t.run(ticker, origin, stop, done)
}

// Stop clears the ticker. The last display is kept.
func (t *ElapsedTimer) Stop() {
	t.resetMu.Lock()
	defer t.resetMu.Unlock()
	t.halt()
}

// Display returns the current display value.
func (t *ElapsedTimer) Display() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.display
}

// Running reports whether a ticker is active.
func (t *ElapsedTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *ElapsedTimer) run(ticker clockwork.Ticker, origin time.Time, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			t.set(FormatElapsed(t.clock.Since(origin)))
		}
	}
}

// halt stops the current goroutine and waits for it to exit. Callers hold resetMu.
func (t *ElapsedTimer) halt() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (t *ElapsedTimer) set(display string) {
	t.mu.Lock()
	t.display = display
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(display)
	}
}
