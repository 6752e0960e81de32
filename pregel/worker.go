package pregel

import (
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

// worker runs the vertices of one partition. Its contexts are allocated once and reused for every superstep.
type worker struct {
	pregel     *Pregel
	partition  Partition
	initCtx    *InitContext
	computeCtx *ComputeContext
	messages   Messages
	computed   int
}

// Turns a panic of user code into a *ComputationError.
func (w *worker) recoverComputation(phase Phase, superstep int, nodeId *uint32, err *error) {
	if r := recover(); r != nil {
		log.Debug().Msg("Worker " + utils.V(w.partition.Worker) + " recovered: " + utils.V(r) + "\n" + string(debug.Stack()))
		*err = &ComputationError{Phase: phase, Superstep: superstep, NodeId: *nodeId, Cause: r}
	}
}

func (w *worker) runInit() (err error) {
	ctx := w.initCtx
	defer w.recoverComputation(INIT, 0, &ctx.nodeId, &err)

	p := w.pregel
	visited := 0
	for nodeId, end := w.partition.StartNode, w.partition.EndNode(); nodeId < end; nodeId++ {
		if !p.terminator.running() {
			break
		}
		ctx.nodeId = nodeId
		p.initializer.Init(ctx)
		visited++
	}
	p.progress.LogProgress(INIT, 0, visited)
	return nil
}

// A vertex is computed in the first superstep, while it has not voted to halt, and whenever it has messages.
func (w *worker) runSuperstep(superstep int) (err error) {
	ctx := w.computeCtx
	ctx.superstep = superstep
	ctx.sent = 0
	w.computed = 0
	defer w.recoverComputation(COMPUTE, superstep, &ctx.nodeId, &err)

	p := w.pregel
	messenger, voteBits, computation := p.messenger, p.voteBits, p.computation
	visited := 0
	for nodeId, end := w.partition.StartNode, w.partition.EndNode(); nodeId < end; nodeId++ {
		if !p.terminator.running() {
			break
		}
		visited++
		if superstep == 0 || !voteBits.Get(nodeId) || !messenger.IsEmpty(nodeId) {
			voteBits.Clear(nodeId)
			ctx.nodeId = nodeId
			messenger.InitMessages(&w.messages, nodeId)
			computation.Compute(ctx, &w.messages)
			messenger.FinishMessages(&w.messages)
			w.computed++
		}
	}
	p.progress.LogProgress(COMPUTE, superstep, visited)
	return nil
}
