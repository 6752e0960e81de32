package main

import (
	"errors"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ScottSallinen/lollipop-bsp/graph"
	"github.com/ScottSallinen/lollipop-bsp/pregel"
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

const (
	DISTANCE    = "distance"
	PREDECESSOR = "predecessor" // Original id of the previous vertex on a shortest path; -1 for sources and unreached vertices.
)

// SSSP computes shortest distances from a set of sources. Messages carry candidate distances; a Min reducer keeps
// the best one, and its sender becomes the predecessor when senders are tracked.
type SSSP struct {
	Sources *roaring.Bitmap
}

func (*SSSP) Name() string { return "SSSP" }

func (*SSSP) Schema(pregel.Config) *pregel.Schema {
	return pregel.NewSchema().
		Add(DISTANCE, pregel.DOUBLE, pregel.WithDefault(math.Inf(1))).
		Add(PREDECESSOR, pregel.LONG, pregel.WithDefault(int64(-1)))
}

func (*SSSP) Reducer() pregel.Reducer { return pregel.MinReducer{} }

func (*SSSP) ApplyRelationshipWeight(distance, weight float64) float64 {
	return distance + weight
}

func (s *SSSP) Compute(ctx *pregel.ComputeContext, messages *pregel.Messages) {
	if ctx.IsInitialSuperstep() {
		if s.Sources.Contains(ctx.NodeId()) {
			ctx.SetDouble(DISTANCE, 0)
			ctx.SendToNeighbors(0)
		}
		ctx.VoteToHalt()
		return
	}
	if distance, ok := messages.Next(); ok && distance < ctx.Double(DISTANCE) {
		ctx.SetDouble(DISTANCE, distance)
		if sender, ok := messages.Sender(); ok {
			ctx.SetLong(PREDECESSOR, int64(ctx.OriginalIdOf(sender)))
		}
		ctx.SendToNeighbors(distance)
	}
	ctx.VoteToHalt()
}

// CheckCorrectness verifies that no relationship offers a shorter path, that sources are at 0, and that every
// reached vertex other than a source has a predecessor on a shortest path.
func (s *SSSP) CheckCorrectness(g *graph.Graph, values pregel.Snapshot, trackSender bool) error {
	distances := values.DoubleProperties(DISTANCE)
	for v := range distances {
		nodeId := uint32(v)
		if s.Sources.Contains(nodeId) && distances[v] != 0 {
			return errors.New("source " + utils.V(g.ToOriginalId(nodeId)) + " has distance " + utils.V(distances[v]))
		}
		var err error
		g.ForEachRelationship(nodeId, 1.0, func(_, target uint32, weight float64) bool {
			if distances[target] > distances[v]+weight {
				err = errors.New("relationship " + utils.V(g.ToOriginalId(nodeId)) + " -> " + utils.V(g.ToOriginalId(target)) + " is shorter")
			}
			return err == nil
		})
		if err != nil {
			return err
		}
		if !trackSender || distances[v] == 0 || math.IsInf(distances[v], 1) {
			continue
		}
		pred, ok := g.ToInternalId(uint64(values.Long(PREDECESSOR, nodeId)))
		if !ok || !utils.FloatEquals(distances[pred]+relationshipWeight(g, pred, nodeId), distances[v]) {
			return errors.New("predecessor of " + utils.V(g.ToOriginalId(nodeId)) + " is not on a shortest path")
		}
	}
	return nil
}

// Lightest relationship from source to target, or +Inf.
func relationshipWeight(g *graph.Graph, source, target uint32) (lightest float64) {
	lightest = math.Inf(1)
	g.ForEachRelationship(source, 1.0, func(_, t uint32, weight float64) bool {
		if t == target {
			lightest = math.Min(lightest, weight)
		}
		return true
	})
	return lightest
}
