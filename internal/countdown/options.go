package countdown

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type config struct {
	interval time.Duration
	clock    Clock
	log      logrus.FieldLogger
}

func defaultConfig() config {
	return config{
		interval: time.Second,
		clock:    realClock{},
		log:      logrus.StandardLogger(),
	}
}

// Option configures a Machine.
type Option func(*config) error

// WithClock sets the clock used for tickers and change timestamps.
func WithClock(clock Clock) Option {
	return func(c *config) error {
		if clock == nil {
			return fmt.Errorf("clock must not be nil")
		}
		c.clock = clock
		return nil
	}
}

// WithInterval sets the tick period. One tick always removes one second.
func WithInterval(interval time.Duration) Option {
	return func(c *config) error {
		if interval <= 0 {
			return fmt.Errorf("interval must be >0")
		}
		c.interval = interval
		return nil
	}
}

// WithLogger sets the logger transitions are reported to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) error {
		if log == nil {
			return fmt.Errorf("logger must not be nil")
		}
		c.log = log
		return nil
	}
}
