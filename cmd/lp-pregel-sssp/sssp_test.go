package main

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/ScottSallinen/lollipop-bsp/graph"
	"github.com/ScottSallinen/lollipop-bsp/pregel"
)

func launch(t *testing.T, g *graph.Graph, sssp *SSSP, config pregel.Config) pregel.Snapshot {
	p, err := pregel.New(g, config, sssp)
	require.NoError(t, err)
	defer p.Release()
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, pregel.CONVERGED, result.State)
	return result.NodeValues
}

// Distances from the closest source, by Dijkstra from every source.
func oracle(mirror *simple.WeightedDirectedGraph, sources *roaring.Bitmap, n int) []float64 {
	expected := make([]float64, n)
	for v := range expected {
		expected[v] = math.Inf(1)
	}
	sources.Iterate(func(source uint32) bool {
		shortest := path.DijkstraFrom(mirror.Node(int64(source)), mirror)
		for v := range expected {
			expected[v] = math.Min(expected[v], shortest.WeightTo(int64(v)))
		}
		return true
	})
	return expected
}

func TestSSSPOracle(t *testing.T) {
	const nodeCount = 300
	for tCount := 0; tCount < 8; tCount++ {
		weighted := tCount%2 == 0
		g, mirror := graph.RandomGraph(nodeCount, 1200, int64(tCount), graph.Options{Weighted: weighted})

		config := pregel.DefaultConfig()
		config.Concurrency = rand.Intn(8-1) + 1
		config.MaxIterations = nodeCount
		config.TrackSender = true
		config.Asynchronous = tCount%4 >= 2

		sssp := &SSSP{Sources: roaring.BitmapOf(0)}
		if tCount >= 4 {
			sssp.Sources.AddMany([]uint32{17, 42})
		}
		values := launch(t, g, sssp, config)

		expected := oracle(mirror, sssp.Sources, nodeCount)
		assert.Equal(t, expected, values.DoubleProperties(DISTANCE), "weighted %v async %v", weighted, config.Asynchronous)
		assert.NoError(t, sssp.CheckCorrectness(g, values, true))
		assert.Equal(t, int64(-1), values.Long(PREDECESSOR, 0))
	}
}

func TestSSSPPredecessor(t *testing.T) {
	g := graph.FromEdges(graph.Options{Weighted: true},
		graph.RawEdge{SrcRaw: 10, DstRaw: 20, Weight: 1},
		graph.RawEdge{SrcRaw: 20, DstRaw: 30, Weight: 1},
		graph.RawEdge{SrcRaw: 10, DstRaw: 30, Weight: 5},
		graph.RawEdge{SrcRaw: 30, DstRaw: 40, Weight: 2},
	)
	config := pregel.DefaultConfig()
	config.Concurrency = 2
	config.TrackSender = true

	source, _ := g.ToInternalId(10)
	values := launch(t, g, &SSSP{Sources: roaring.BitmapOf(source)}, config)

	distances := map[uint64]float64{10: 0, 20: 1, 30: 2, 40: 4}
	predecessors := map[uint64]int64{10: -1, 20: 10, 30: 20, 40: 30}
	for originalId, distance := range distances {
		nodeId, ok := g.ToInternalId(originalId)
		require.True(t, ok)
		assert.Equal(t, distance, values.Double(DISTANCE, nodeId), "node %d", originalId)
		assert.Equal(t, predecessors[originalId], values.Long(PREDECESSOR, nodeId), "node %d", originalId)
	}
}

func TestSSSPWithoutSenders(t *testing.T) {
	g, mirror := graph.RandomGraph(100, 300, 3, graph.Options{})
	config := pregel.DefaultConfig()
	config.Concurrency = 4
	config.MaxIterations = 100
	sssp := &SSSP{Sources: roaring.BitmapOf(5)}

	values := launch(t, g, sssp, config)
	assert.Equal(t, oracle(mirror, sssp.Sources, 100), values.DoubleProperties(DISTANCE))
	assert.Equal(t, make([]int64, 100), addOne(values.LongProperties(PREDECESSOR)), "no predecessor without senders")
	assert.NoError(t, sssp.CheckCorrectness(g, values, false))
}

func addOne(values []int64) []int64 {
	shifted := make([]int64, len(values))
	for i, v := range values {
		shifted[i] = v + 1
	}
	return shifted
}
