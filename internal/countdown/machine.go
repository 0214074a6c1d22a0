// Package countdown implements a one second countdown with start, pause and
// reset controls. A Machine owns its ticking goroutine; every mutation is
// announced to subscribers as a Change.
package countdown

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidDuration is returned for empty, non-numeric or non-positive
	// durations. The machine is left untouched.
	ErrInvalidDuration = errors.New("duration must be a positive number of seconds")
	// ErrClosed is returned by Configure once the machine has been closed.
	ErrClosed = errors.New("countdown closed")
)

// Change is delivered to listeners after every mutation.
type Change struct {
	Event    Event
	Snapshot Snapshot
	At       time.Time
}

// Listener receives changes in the order they happened. Listeners run while
// the machine holds its notification lock and must not call back into it.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

type Machine struct {
	mu       sync.Mutex
	duration int
	timeLeft int
	state    State
	closed   bool

	clock    Clock
	interval time.Duration
	log      logrus.FieldLogger

	// gen identifies the live tick handle. It is bumped on every cancel so a
	// tick from a stale handle is dropped.
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup

	notifyMu  sync.Mutex
	listeners []subscription
	nextID    int
}

// New creates an idle machine with no duration set.
func New(opts ...Option) (*Machine, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return nil, fmt.Errorf("unable to apply configuration: %w", err)
		}
	}
	return &Machine{
		state:    Idle,
		clock:    c.clock,
		interval: c.interval,
		log:      c.log.WithField("component", "countdown"),
	}, nil
}

// Configure sets the duration and starts counting down from it.
func (m *Machine) Configure(seconds int) error {
	if seconds <= 0 {
		m.log.WithField("seconds", seconds).Debug("ignoring invalid duration")
		return ErrInvalidDuration
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.stopTickingLocked()
	m.duration = seconds
	m.timeLeft = seconds
	m.state = Running
	m.startTickingLocked()
	m.log.WithField("seconds", seconds).Info("countdown configured")
	m.publish(EventConfigured)
	return nil
}

// ConfigureInput parses raw user input as whole seconds and configures it.
func (m *Machine) ConfigureInput(raw string) error {
	seconds, err := ParseSeconds(raw)
	if err != nil {
		m.log.WithField("input", raw).Debug("ignoring invalid duration input")
		return err
	}
	return m.Configure(seconds)
}

// ParseSeconds accepts a positive base 10 integer, surrounding space allowed.
func ParseSeconds(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}
	return v, nil
}

// Start resumes or restarts ticking from Idle or Paused. It reports whether
// the machine moved to Running.
func (m *Machine) Start() bool {
	m.mu.Lock()
	if m.closed || m.timeLeft <= 0 || (m.state != Idle && m.state != Paused) {
		m.mu.Unlock()
		return false
	}
	m.stopTickingLocked()
	m.state = Running
	m.startTickingLocked()
	m.log.WithField("time_left", m.timeLeft).Debug("countdown started")
	m.publish(EventStarted)
	return true
}

// Pause stops ticking and keeps the time left. It reports whether the
// machine was running.
func (m *Machine) Pause() bool {
	m.mu.Lock()
	if m.closed || m.state != Running {
		m.mu.Unlock()
		return false
	}
	m.stopTickingLocked()
	m.state = Paused
	m.log.WithField("time_left", m.timeLeft).Debug("countdown paused")
	m.publish(EventPaused)
	return true
}

// Reset returns to Idle with the full duration loaded.
func (m *Machine) Reset() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.stopTickingLocked()
	m.state = Idle
	m.timeLeft = m.duration
	m.log.WithField("time_left", m.timeLeft).Debug("countdown reset")
	m.publish(EventReset)
}

// Snapshot returns the current fields.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn for every subsequent change. The returned func
// removes it again.
func (m *Machine) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.listeners {
				if s.id == id {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

// Close stops ticking and waits for the ticking goroutine to exit. Later
// calls to the machine's operations have no effect.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.stopTickingLocked()
	m.publish(EventClosed)
	m.wg.Wait()
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		Duration: m.duration,
		TimeLeft: m.timeLeft,
		State:    m.state,
	}
}

func (m *Machine) startTickingLocked() {
	m.gen++
	gen := m.gen

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	ticker := m.clock.NewTicker(m.interval)
	m.wg.Add(1)
	go m.run(ctx, ticker, gen)
}

func (m *Machine) stopTickingLocked() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.cancel = nil
	m.gen++
}

func (m *Machine) run(ctx context.Context, ticker Ticker, gen uint64) {
	defer m.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if !m.tick(gen) {
				return
			}
		}
	}
}

// tick removes one second on behalf of handle gen. It reports whether the
// handle is still live afterwards.
func (m *Machine) tick(gen uint64) bool {
	m.mu.Lock()
	if gen != m.gen || m.state != Running {
		m.mu.Unlock()
		return false
	}

	m.timeLeft--
	if m.timeLeft > 0 {
		m.publish(EventTicked)
		return true
	}

	m.timeLeft = 0
	m.state = Expired
	m.stopTickingLocked()
	m.log.WithField("duration", m.duration).Info("countdown expired")
	m.publish(EventExpired)
	return false
}

// publish must be called with m.mu held and releases it. Listeners run
// under notifyMu so they observe changes in order.
func (m *Machine) publish(ev Event) {
	c := Change{Event: ev, Snapshot: m.snapshotLocked(), At: m.clock.Now()}
	listeners := make([]Listener, len(m.listeners))
	for i, s := range m.listeners {
		listeners[i] = s.fn
	}

	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
}
