package pregel

import (
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

type Partitioning uint8

const (
	RANGE  Partitioning = iota // Equal sized contiguous ranges of node ids.
	DEGREE                     // Contiguous ranges balanced by out-degree.
	AUTO                       // DEGREE when the graph has relationships, otherwise RANGE.
)

func (p Partitioning) String() string {
	switch p {
	case RANGE:
		return "RANGE"
	case DEGREE:
		return "DEGREE"
	case AUTO:
		return "AUTO"
	}
	return "UNKNOWN(" + utils.V(uint8(p)) + ")"
}

func ParsePartitioning(s string) (Partitioning, bool) {
	switch s {
	case "RANGE", "range":
		return RANGE, true
	case "DEGREE", "degree":
		return DEGREE, true
	case "AUTO", "auto":
		return AUTO, true
	}
	return RANGE, false
}

const (
	DEFAULT_MAX_ITERATIONS       = 20
	DEFAULT_COMPACTION_THRESHOLD = 0.5
	DEFAULT_QUEUE_CAPACITY       = 4
)

type Config struct {
	MaxIterations int          // Upper bound of supersteps; reaching it ends the run as HALTED.
	Concurrency   int          // Number of partitions, and the number of workers running at once.
	Partitioning  Partitioning // How node ids are split into partitions.
	Asynchronous  bool         // Messages may be read within the superstep they were sent in.

	InitialQueueCapacity int     // Per-vertex queue capacity reserved on first use.
	MaxQueueSize         int     // Upper bound of messages pending for one vertex; 0 for unbounded.
	CompactionThreshold  float64 // Async queues compact once this fraction of their capacity was consumed.

	TrackSender   bool    // Reduced messages remember the sender of the winning value.
	UseWeights    bool    // Apply WeightedComputation to messages sent to neighbours.
	DefaultWeight float64 // Weight of relationships in graphs without weights.
}

func DefaultConfig() Config {
	return Config{
		MaxIterations:        DEFAULT_MAX_ITERATIONS,
		Concurrency:          runtime.NumCPU(),
		Partitioning:         AUTO,
		InitialQueueCapacity: DEFAULT_QUEUE_CAPACITY,
		CompactionThreshold:  DEFAULT_COMPACTION_THRESHOLD,
		UseWeights:           true,
		DefaultWeight:        1.0,
	}
}

// Validate returns a *ConfigError for the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Concurrency <= 0:
		return &ConfigError{"Concurrency", "must be positive, got " + utils.V(c.Concurrency)}
	case c.MaxIterations <= 0:
		return &ConfigError{"MaxIterations", "must be positive, got " + utils.V(c.MaxIterations)}
	case c.Partitioning > AUTO:
		return &ConfigError{"Partitioning", "unknown strategy " + c.Partitioning.String()}
	case c.MaxQueueSize < 0:
		return &ConfigError{"MaxQueueSize", "must not be negative, got " + utils.V(c.MaxQueueSize)}
	case c.InitialQueueCapacity < 0:
		return &ConfigError{"InitialQueueCapacity", "must not be negative, got " + utils.V(c.InitialQueueCapacity)}
	case c.Asynchronous && (c.CompactionThreshold <= 0 || c.CompactionThreshold > 1):
		return &ConfigError{"CompactionThreshold", "must be in (0, 1], got " + utils.V(c.CompactionThreshold)}
	}
	if c.Concurrency > runtime.NumCPU() {
		log.Warn().Msg("Concurrency " + utils.V(c.Concurrency) + " is greater than CPU count " + utils.V(runtime.NumCPU()))
	}
	return nil
}
