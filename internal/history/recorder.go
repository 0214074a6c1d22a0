// Package history keeps a sqlite log of finished countdown runs.
package history

import (
	"sync"

	"github.com/sirupsen/logrus"

	"countdown/internal/countdown"
)

// Store persists finished runs.
type Store interface {
	Create(run *Run) error
}

// Recorder turns countdown changes into runs. A run opens when a countdown
// is configured (or started again after a reset) and closes when it
// expires, is reset, reconfigured or the machine is closed.
type Recorder struct {
	store Store
	log   logrus.FieldLogger

	mu        sync.Mutex
	open      *Run
	remaining int
}

func NewRecorder(store Store, log logrus.FieldLogger) *Recorder {
	return &Recorder{
		store: store,
		log:   log.WithField("component", "history"),
	}
}

// Attach subscribes the recorder to m.
func (r *Recorder) Attach(m *countdown.Machine) (detach func()) {
	return m.Subscribe(r.Observe)
}

// Observe is a countdown.Listener.
func (r *Recorder) Observe(c countdown.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch c.Event {
	case countdown.EventConfigured:
		r.finishLocked(c, OutcomeReconfigured)
		r.openLocked(c)
	case countdown.EventStarted:
		if r.open == nil {
			r.openLocked(c)
		}
		r.remaining = c.Snapshot.TimeLeft
	case countdown.EventTicked, countdown.EventPaused:
		r.remaining = c.Snapshot.TimeLeft
	case countdown.EventExpired:
		r.remaining = 0
		r.finishLocked(c, OutcomeExpired)
	case countdown.EventReset:
		r.finishLocked(c, OutcomeReset)
	case countdown.EventClosed:
		r.finishLocked(c, OutcomeClosed)
	}
}

func (r *Recorder) openLocked(c countdown.Change) {
	r.open = &Run{
		Duration:  c.Snapshot.Duration,
		StartedAt: c.At,
	}
	r.remaining = c.Snapshot.TimeLeft
}

func (r *Recorder) finishLocked(c countdown.Change, outcome Outcome) {
	if r.open == nil {
		return
	}
	run := r.open
	r.open = nil

	run.Remaining = r.remaining
	run.EndedAt = c.At
	run.Outcome = outcome

	log := r.log.WithFields(logrus.Fields{
		"duration":  run.Duration,
		"remaining": run.Remaining,
		"outcome":   run.Outcome,
	})
	if err := r.store.Create(run); err != nil {
		log.WithError(err).Error("failed to save run")
		return
	}
	log.WithField("id", run.ID).Debug("run saved")
}
