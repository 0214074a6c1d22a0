package history

import "time"

// Outcome records how a countdown run ended.
type Outcome string

const (
	OutcomeExpired      Outcome = "expired"
	OutcomeReset        Outcome = "reset"
	OutcomeReconfigured Outcome = "reconfigured"
	OutcomeClosed       Outcome = "closed"
)

// Run represents one finished countdown, from Configure to its end.
type Run struct {
	ID        string
	Duration  int // seconds
	Remaining int // seconds left when the run ended
	StartedAt time.Time
	EndedAt   time.Time
	Outcome   Outcome
}

// Elapsed is the wall time the run was open, pauses included.
func (r Run) Elapsed() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// OutcomeStats aggregates runs sharing an outcome.
type OutcomeStats struct {
	Outcome Outcome
	Count   int
	Seconds int // sum of configured durations
}
