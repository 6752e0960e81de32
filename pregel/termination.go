package pregel

import (
	"context"
	"sync/atomic"
)

// TerminationFlag is polled by the engine before every vertex and at every barrier.
// Once Running returns false the run ends as ABORTED.
type TerminationFlag interface {
	Running() bool
}

type runningTrue struct{}

func (runningTrue) Running() bool { return true }

// RUNNING_TRUE never terminates.
var RUNNING_TRUE TerminationFlag = runningTrue{}

// TerminationFunc adapts a function to a TerminationFlag.
type TerminationFunc func() bool

func (f TerminationFunc) Running() bool { return f() }

// terminator combines the user flag with the cancellation of the run's context.
type terminator struct {
	flag      TerminationFlag
	cancelled atomic.Bool
	tripped   atomic.Bool
}

// Watches ctx until the returned stop is called.
func (t *terminator) watch(ctx context.Context) (stop func() bool) {
	stop = context.AfterFunc(ctx, func() { t.cancelled.Store(true) })
	if ctx.Err() != nil {
		t.cancelled.Store(true)
	}
	return stop
}

func (t *terminator) running() bool {
	if t.tripped.Load() {
		return false
	}
	if t.cancelled.Load() || !t.flag.Running() {
		t.tripped.Store(true)
		return false
	}
	return true
}
