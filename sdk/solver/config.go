package solver

import (
	"errors"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// Options controls how a Solver runs. None of the fields change the values it
// computes.
type Options struct {
	// Workers is the number of up cards TotalExpectedValue solves in parallel.
	// Each worker owns a cloned shoe and its own caches.
	Workers int

	// DisableCache replaces both memo stores with stores that never hit, so
	// every subproblem is recomputed. Only practical for small positions.
	DisableCache bool

	// Logger receives per up card progress at debug level and a summary at
	// info level.
	Logger zerolog.Logger

	// Clock times solves for Stats.
	Clock quartz.Clock
}

// Validate ensures the options are safe to use.
func (o Options) Validate() error {
	if o.Workers <= 0 {
		return errors.New("workers must be > 0")
	}
	if o.Clock == nil {
		return errors.New("clock is required")
	}
	return nil
}

// DefaultOptions returns sequential, cached, silent options on the real clock.
func DefaultOptions() Options {
	return Options{
		Workers: 1,
		Logger:  zerolog.Nop(),
		Clock:   quartz.NewReal(),
	}
}
