package main

import (
	"errors"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/pregel"
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

const (
	RANK              = "rank"
	DAMPING_FACTOR    = 0.85
	DEFAULT_TOLERANCE = 1e-7
	ORACLE_TOLERANCE  = 1e-15
	ORACLE_ITERATIONS = 10000
)

// PageRank propagates rank changes rather than ranks, so a vertex whose change falls below the tolerance may halt
// without starving its neighbours. With sources, the teleport mass only returns to them (personalized PageRank).
type PageRank struct {
	DampingFactor float64
	Tolerance     float64
	Sources       *roaring.Bitmap // Empty or nil for global PageRank.

	totalDelta float64 // Sum of the changes in the current superstep.
}

func (*PageRank) Name() string { return "PageRank" }

func (*PageRank) Schema(pregel.Config) *pregel.Schema {
	return pregel.NewSchema().Add(RANK, pregel.DOUBLE, pregel.WithDefault(0.0))
}

func (*PageRank) Reducer() pregel.Reducer { return pregel.SumReducer{} }

func (pr *PageRank) teleport(nodeId uint32) float64 {
	if pr.Sources == nil || pr.Sources.IsEmpty() || pr.Sources.Contains(nodeId) {
		return 1 - pr.DampingFactor
	}
	return 0
}

func (pr *PageRank) Compute(ctx *pregel.ComputeContext, messages *pregel.Messages) {
	var delta float64
	if ctx.IsInitialSuperstep() {
		delta = pr.teleport(ctx.NodeId())
		ctx.SetDouble(RANK, delta)
	} else {
		delta = pr.DampingFactor * messages.Sum()
		ctx.SetDouble(RANK, ctx.Double(RANK)+delta)
	}
	if delta > pr.Tolerance && ctx.Degree() > 0 {
		utils.AtomicAddFloat64(&pr.totalDelta, delta)
		ctx.SendToNeighbors(delta / float64(ctx.Degree()))
	}
	ctx.VoteToHalt()
}

// Reports the mass still moving. Convergence is left to the votes.
func (pr *PageRank) MasterCompute(ctx *pregel.MasterComputeContext) bool {
	moving := utils.AtomicLoadFloat64(&pr.totalDelta)
	utils.AtomicStoreFloat64(&pr.totalDelta, 0)
	log.Debug().Msg("PageRank superstep " + utils.V(ctx.Superstep()) + " moving mass " + utils.F("%.3e", moving))
	return false
}

// CheckCorrectness verifies that every rank is finite and at least its teleport share, and that the ranks sum to
// no more than the mass injected.
func (pr *PageRank) CheckCorrectness(ranks []float64) error {
	total, injected := 0.0, 0.0
	for v, rank := range ranks {
		base := pr.teleport(uint32(v))
		if math.IsNaN(rank) || math.IsInf(rank, 0) || rank < base {
			return errors.New("rank of node " + utils.V(v) + " is " + utils.V(rank) + ", below its teleport share " + utils.V(base))
		}
		total += rank
		injected += base
	}
	if limit := injected / (1 - pr.DampingFactor); total > limit*(1+1e-9) {
		return errors.New("total rank " + utils.V(total) + " exceeds the injected mass " + utils.V(limit))
	}
	log.Info().Msg("Total rank " + utils.F("%.6f", total))
	return nil
}
