package pregel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_TerminatorFlag(t *testing.T) {
	var stop atomic.Bool
	term := &terminator{flag: TerminationFunc(func() bool { return !stop.Load() })}
	assert.True(t, term.running())
	stop.Store(true)
	assert.False(t, term.running())
	stop.Store(false)
	assert.False(t, term.running(), "termination is sticky")
}

func Test_TerminatorContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	term := &terminator{flag: RUNNING_TRUE}
	defer term.watch(ctx)()
	assert.True(t, term.running())
	cancel()
	assert.Eventually(t, func() bool { return !term.running() }, time.Second, time.Millisecond)
}

func Test_PhaseString(t *testing.T) {
	assert.Equal(t, "Initialization", INIT.String())
	assert.Equal(t, "Compute", COMPUTE.String())
	assert.Equal(t, "Master compute", MASTER_COMPUTE.String())
	assert.Equal(t, "Unknown phase 9", Phase(9).String())

	tracker := NewLogProgressTracker("PageRank", 10, 20, time.Second)
	assert.Equal(t, "PageRank Initialization", tracker.describe(INIT, 0))
	assert.Equal(t, "PageRank Compute iteration 3 of 20", tracker.describe(COMPUTE, 2))
	tracker.BeginPhase(COMPUTE, 2)
	tracker.LogProgress(COMPUTE, 2, 5)
	tracker.LogProgress(COMPUTE, 2, 5)
	assert.Equal(t, int64(10), tracker.visited.Load())
	tracker.EndPhase(COMPUTE, 2, 10)
}
