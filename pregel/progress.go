package pregel

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

type Phase uint8

const (
	INIT Phase = iota
	COMPUTE
	MASTER_COMPUTE
)

func (p Phase) String() string {
	switch p {
	case INIT:
		return "Initialization"
	case COMPUTE:
		return "Compute"
	case MASTER_COMPUTE:
		return "Master compute"
	}
	return "Unknown phase " + utils.V(uint8(p))
}

// ProgressTracker is notified as the run moves through its phases.
// LogProgress is called concurrently by the workers; the other methods run on the orchestrator.
type ProgressTracker interface {
	BeginPhase(phase Phase, superstep int)
	LogProgress(phase Phase, superstep int, vertices int)
	EndPhase(phase Phase, superstep int, vertices int)
}

type NoopProgressTracker struct{}

func (NoopProgressTracker) BeginPhase(Phase, int)       {}
func (NoopProgressTracker) LogProgress(Phase, int, int) {}
func (NoopProgressTracker) EndPhase(Phase, int, int)    {}

// LogProgressTracker writes phase boundaries to the global logger at info level,
// and the percentage of vertices visited at debug level, at most once per interval.
type LogProgressTracker struct {
	name          string
	nodeCount     int
	maxIterations int
	visited       atomic.Int64
	sometimes     rate.Sometimes
}

func NewLogProgressTracker(name string, nodeCount, maxIterations int, interval time.Duration) *LogProgressTracker {
	return &LogProgressTracker{
		name:          name,
		nodeCount:     nodeCount,
		maxIterations: maxIterations,
		sometimes:     rate.Sometimes{Interval: interval},
	}
}

func (t *LogProgressTracker) describe(phase Phase, superstep int) string {
	if phase == INIT {
		return t.name + " " + phase.String()
	}
	return t.name + " " + phase.String() + " iteration " + utils.V(superstep+1) + " of " + utils.V(t.maxIterations)
}

func (t *LogProgressTracker) BeginPhase(phase Phase, superstep int) {
	t.visited.Store(0)
	log.Info().Msg(t.describe(phase, superstep) + " :: Start")
}

func (t *LogProgressTracker) LogProgress(phase Phase, superstep int, vertices int) {
	visited := t.visited.Add(int64(vertices))
	t.sometimes.Do(func() {
		percent := 100.0
		if t.nodeCount > 0 {
			percent = float64(visited) * 100.0 / float64(t.nodeCount)
		}
		log.Debug().Msg(t.describe(phase, superstep) + " " + utils.F("%.1f", percent) + "%")
	})
}

func (t *LogProgressTracker) EndPhase(phase Phase, superstep int, vertices int) {
	log.Info().Msg(t.describe(phase, superstep) + " :: Finished (" + utils.V(vertices) + " vertices)")
}
