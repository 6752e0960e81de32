package pregel

import (
	"context"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

type State uint8

const (
	INITIALIZING State = iota // Constructed; Run not yet called, or running init.
	RUNNING                   // Inside a superstep.
	CONVERGED                 // No active vertex and no pending message, or the master computation stopped the run.
	HALTED                    // MaxIterations supersteps ran without converging.
	ABORTED                   // The termination flag tripped.
	FAILED                    // User code panicked, or a queue exceeded its capacity.
)

func (s State) String() string {
	switch s {
	case INITIALIZING:
		return "INITIALIZING"
	case RUNNING:
		return "RUNNING"
	case CONVERGED:
		return "CONVERGED"
	case HALTED:
		return "HALTED"
	case ABORTED:
		return "ABORTED"
	case FAILED:
		return "FAILED"
	}
	return "UNKNOWN(" + utils.V(uint8(s)) + ")"
}

func (s State) Terminal() bool {
	return s >= CONVERGED
}

// Result of a finished run.
type Result struct {
	NodeValues    Snapshot
	RanIterations int // Number of completed supersteps.
	DidConverge   bool
	State         State
	Elapsed       time.Duration

	voteBits  utils.AtomicBitmap
	nodeCount int
}

// Halted returns the vertices that had voted to halt when the run ended.
func (r *Result) Halted() *roaring.Bitmap {
	halted := roaring.New()
	batch := make([]uint32, 0, 1024)
	r.voteBits.ForEach(func(nodeId uint32) bool {
		if int(nodeId) >= r.nodeCount {
			return false
		}
		if batch = append(batch, nodeId); len(batch) == cap(batch) {
			halted.AddMany(batch)
			batch = batch[:0]
		}
		return true
	})
	halted.AddMany(batch)
	return halted
}

type Option func(*Pregel)

func WithProgressTracker(tracker ProgressTracker) Option {
	return func(p *Pregel) { p.progress = tracker }
}

func WithTerminationFlag(flag TerminationFlag) Option {
	return func(p *Pregel) { p.terminator.flag = flag }
}

// Pregel runs a Computation over a Graph in supersteps.
// It owns the node values, the messenger and the vote bits for the duration of the run.
type Pregel struct {
	name        string
	graph       Graph
	config      Config
	computation Computation
	initializer Initializer
	master      MasterComputation

	values     *NodeValues
	messenger  Messenger
	voteBits   utils.AtomicBitmap
	partitions []Partition
	workers    []*worker

	progress   ProgressTracker
	terminator terminator
	state      State
	superstep  int
	released   bool
	watch      utils.Watch
}

// New validates the configuration against the computation and the graph, and allocates everything the run needs.
func New(graph Graph, config Config, computation Computation, opts ...Option) (*Pregel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	name := computationName(computation)
	_, bidirectional := computation.(BidirectionalComputation)
	if bidirectional && !hasInverseIndex(graph) {
		return nil, fmt.Errorf("the computation %s %w", name, ErrMissingInverseIndex)
	}
	schema := computation.Schema(config)
	if schema == nil {
		schema = NewSchema()
	}
	values, err := NewNodeValues(schema, graph.NodeCount())
	if err != nil {
		return nil, fmt.Errorf("schema of %s: %w", name, err)
	}

	p := &Pregel{
		name:        name,
		graph:       graph,
		config:      config,
		computation: computation,
		values:      values,
		voteBits:    utils.NewAtomicBitmap(graph.NodeCount()),
		progress:    NoopProgressTracker{},
		terminator:  terminator{flag: RUNNING_TRUE},
		state:       INITIALIZING,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.initializer, _ = computation.(Initializer)
	p.master, _ = computation.(MasterComputation)

	var reducer Reducer
	if rc, ok := computation.(ReducingComputation); ok {
		reducer = rc.Reducer()
	}
	p.messenger = newMessenger(graph.NodeCount(), &p.config, reducer)

	var weighter WeightedComputation
	if wc, ok := computation.(WeightedComputation); ok && p.config.UseWeights {
		weighter = wc
	}
	properties, _ := graph.(PropertyGraph)

	p.partitions = partitionGraph(graph, &p.config)
	p.workers = make([]*worker, len(p.partitions))
	for i, partition := range p.partitions {
		g := graph.ConcurrentCopy()
		w := &worker{pregel: p, partition: partition}
		w.initCtx = &InitContext{nodeContext: nodeContext{graph: g, values: values, config: &p.config}, properties: properties}
		w.computeCtx = newComputeContext(g, values, &p.config, p.messenger, p.voteBits)
		w.computeCtx.weighter = weighter
		if bidirectional {
			inverse, ok := g.(InverseGraph)
			if !ok {
				return nil, fmt.Errorf("the computation %s %w: concurrent copy of the graph has none", name, ErrMissingInverseIndex)
			}
			w.computeCtx.inverse = inverse
		}
		p.workers[i] = w
	}

	estimate := EstimateMemory(EstimationInput{
		Schema:               schema,
		NodeCount:            graph.NodeCount(),
		RelationshipCount:    graph.RelationshipCount(),
		Concurrency:          p.config.Concurrency,
		Asynchronous:         p.config.Asynchronous,
		Reducer:              reducer != nil,
		TrackSender:          p.config.TrackSender,
		InitialQueueCapacity: p.config.InitialQueueCapacity,
	})
	log.Debug().Msg("Pregel " + name + ": nodes " + utils.V(graph.NodeCount()) + ", relationships " + utils.V(graph.RelationshipCount()) +
		", partitions " + utils.V(len(p.partitions)) + ", messenger " + utils.F("%T", p.messenger) + ", estimated memory " + estimate.String())
	return p, nil
}

func (p *Pregel) State() State {
	return p.state
}

func (p *Pregel) Partitions() []Partition {
	return p.partitions
}

func (p *Pregel) NodeValues() *NodeValues {
	return p.values
}

// Run executes the computation until it converges, reaches MaxIterations, or is terminated.
// Cancelling ctx terminates the run like the termination flag does: the result has state ABORTED and the error is nil.
// An error means the run FAILED; there is no result then.
func (p *Pregel) Run(ctx context.Context) (*Result, error) {
	if p.state != INITIALIZING || p.released {
		return nil, ErrAlreadyRun
	}
	stop := p.terminator.watch(ctx)
	defer stop()
	p.watch.Start()
	log.Info().Msg("Pregel " + p.name + " starting with " + utils.V(len(p.workers)) + " partitions, max iterations " +
		utils.V(p.config.MaxIterations) + ", asynchronous " + utils.V(p.config.Asynchronous))

	// Without an initializer the phase is still reported, with no vertices visited.
	p.progress.BeginPhase(INIT, 0)
	initialized := 0
	if p.initializer != nil {
		if err := p.forEachWorker(func(w *worker) error { return w.runInit() }); err != nil {
			return p.fail(err)
		}
		initialized = p.graph.NodeCount()
	}
	p.progress.EndPhase(INIT, 0, initialized)
	if !p.terminator.running() {
		return p.finish(ABORTED, 0), nil
	}

	nodeCount := p.graph.NodeCount()
	for superstep := 0; ; superstep++ {
		p.state, p.superstep = RUNNING, superstep
		p.messenger.InitIteration(superstep)

		p.progress.BeginPhase(COMPUTE, superstep)
		if err := p.forEachWorker(func(w *worker) error { return w.runSuperstep(superstep) }); err != nil {
			return p.fail(err)
		}
		if err := p.messenger.Err(); err != nil {
			return p.fail(err)
		}
		computed, sent := p.sumWorkers()
		p.progress.EndPhase(COMPUTE, superstep, computed)
		if e := log.Debug(); e.Enabled() {
			e.Msg("Superstep " + utils.V(superstep) + ": computed " + utils.V(computed) + ", messages " + utils.V(sent) +
				", halted " + utils.V(p.voteBits.Count()) + ", time " + utils.V(p.watch.Lap().Milliseconds()) + "ms")
		}

		masterConverged := false
		if p.master != nil {
			var err error
			if masterConverged, err = p.runMasterCompute(superstep); err != nil {
				return p.fail(err)
			}
		}
		// A terminated superstep may be partial, so it never counts as converged.
		if !p.terminator.running() {
			return p.finish(ABORTED, superstep), nil
		}
		if masterConverged || (p.voteBits.AllSet(nodeCount) && !p.messenger.HasMessages()) {
			return p.finish(CONVERGED, superstep+1), nil
		}
		if superstep+1 >= p.config.MaxIterations {
			return p.finish(HALTED, superstep+1), nil
		}
	}
}

// Fork-join over the partitions. All tasks finish before the first error, if any, is returned.
func (p *Pregel) forEachWorker(fn func(w *worker) error) error {
	var g errgroup.Group
	g.SetLimit(p.config.Concurrency)
	for _, w := range p.workers {
		g.Go(func() error { return fn(w) })
	}
	return g.Wait()
}

func (p *Pregel) sumWorkers() (computed int, sent int) {
	for _, w := range p.workers {
		computed += w.computed
		sent += w.computeCtx.sent
	}
	return computed, sent
}

func (p *Pregel) runMasterCompute(superstep int) (converged bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ComputationError{Phase: MASTER_COMPUTE, Superstep: superstep, Cause: r}
		}
	}()
	p.progress.BeginPhase(MASTER_COMPUTE, superstep)
	ctx := &MasterComputeContext{graph: p.graph, values: p.values, config: &p.config, superstep: superstep}
	converged = p.master.MasterCompute(ctx)
	p.progress.EndPhase(MASTER_COMPUTE, superstep, p.graph.NodeCount())
	return converged, nil
}

func (p *Pregel) fail(err error) (*Result, error) {
	p.state = FAILED
	log.Error().Err(err).Msg("Pregel " + p.name + " failed in superstep " + utils.V(p.superstep))
	return nil, err
}

func (p *Pregel) finish(state State, ranIterations int) *Result {
	p.state = state
	elapsed := p.watch.Elapsed()
	log.Info().Msg("Pregel " + p.name + " " + state.String() + " after " + utils.V(ranIterations) + " supersteps in " +
		utils.V(elapsed.Milliseconds()) + "ms")
	return &Result{
		NodeValues:    p.values.Snapshot(),
		RanIterations: ranIterations,
		DidConverge:   state == CONVERGED,
		State:         state,
		Elapsed:       elapsed,
		voteBits:      p.voteBits,
		nodeCount:     p.graph.NodeCount(),
	}
}

// Release frees the messenger and the node value pages, and closes the computation.
// Snapshots handed out in results remain readable.
func (p *Pregel) Release() {
	if p.released {
		return
	}
	p.released = true
	if e := log.Debug(); e.Enabled() {
		e.Msg("Pregel " + p.name + " releasing " + utils.Bytes(p.values.memoryUsage()) + " of node values")
	}
	p.messenger.Release()
	p.values.release()
	p.workers = nil
	if c, ok := p.computation.(ClosingComputation); ok {
		c.Close()
	}
}
