package countdown

import "fmt"

// State is the phase of a countdown.
type State int

const (
	Idle State = iota
	Running
	Paused
	Expired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event names the operation behind a Change.
type Event int

const (
	EventConfigured Event = iota
	EventStarted
	EventPaused
	EventReset
	EventTicked
	EventExpired
	EventClosed
)

func (e Event) String() string {
	switch e {
	case EventConfigured:
		return "configured"
	case EventStarted:
		return "started"
	case EventPaused:
		return "paused"
	case EventReset:
		return "reset"
	case EventTicked:
		return "ticked"
	case EventExpired:
		return "expired"
	case EventClosed:
		return "closed"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Snapshot is a consistent copy of the countdown fields.
// Duration is 0 until the first successful Configure.
type Snapshot struct {
	Duration int
	TimeLeft int
	State    State
}

// Display renders TimeLeft as MM:SS.
func (s Snapshot) Display() string {
	return Format(s.TimeLeft)
}

// Remaining is the fraction of Duration still left, in [0, 1].
func (s Snapshot) Remaining() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TimeLeft) / float64(s.Duration)
}

// Format renders seconds as zero padded MM:SS. Minutes do not roll over
// into hours.
func Format(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
