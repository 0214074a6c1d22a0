package countdown

import (
	"sync"
	"testing"
	"time"
)

type manualTicker struct {
	ch chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *manualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// manualClock hands out tickers that only fire when the test says so.
type manualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *manualClock) latest(t *testing.T) *manualTicker {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		t.Fatal("no ticker was created")
	}
	return c.tickers[len(c.tickers)-1]
}

func (c *manualClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// fire delivers one tick to the latest ticker and advances time by a second.
func (c *manualClock) fire(t *testing.T) {
	t.Helper()
	tk := c.latest(t)
	c.mu.Lock()
	c.now = c.now.Add(time.Second)
	now := c.now
	c.mu.Unlock()

	select {
	case tk.ch <- now:
	case <-time.After(time.Second):
		t.Fatal("tick was not consumed")
	}
}
