package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// TickInterval is the wall-clock pace of the Run loop.
	TickInterval time.Duration

	// SnapshotInterval is the number of ticks between snapshots; zero
	// disables snapshotting.
	SnapshotInterval int64

	// SentimentDecay is the multiplicative per-tick sentiment decay applied
	// after pricing.
	SentimentDecay float64
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		TickInterval:     time.Second,
		SnapshotInterval: 30,
		SentimentDecay:   0.95,
	}
}
