package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// SnapshotInterval is how often engine state is persisted. Snapshots are
	// taken between commands, never in the middle of one.
	SnapshotInterval time.Duration
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		SnapshotInterval: 3 * time.Second,
	}
}
