package utils

import (
	"time"
)

// Watch measures the duration of a run, with laps for the phases inside it.
// Not safe for concurrent use; the orchestrator owns it.
type Watch struct {
	startTime time.Time
	lapTime   time.Time
}

func (w *Watch) Start() {
	w.startTime = time.Now()
	w.lapTime = w.startTime
}

func (w *Watch) Elapsed() time.Duration {
	return time.Since(w.startTime)
}

// Lap returns the time since the previous lap (or start) and begins a new lap.
func (w *Watch) Lap() time.Duration {
	now := time.Now()
	lap := now.Sub(w.lapTime)
	w.lapTime = now
	return lap
}
