package main

import (
	"context"
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScottSallinen/lollipop-bsp/graph"
	"github.com/ScottSallinen/lollipop-bsp/pregel"
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

// Power iteration of rank = teleport + d * sum(rank(u) / degree(u)) over incoming u.
func oracle(g *graph.Graph, pr *PageRank, iterations int) []float64 {
	n := g.NodeCount()
	ranks, next := make([]float64, n), make([]float64, n)
	for i := 0; i < iterations; i++ {
		for v := range next {
			next[v] = pr.teleport(uint32(v))
		}
		for u := range ranks {
			targets := g.Targets(uint32(u))
			for _, v := range targets {
				next[v] += pr.DampingFactor * ranks[u] / float64(len(targets))
			}
		}
		ranks, next = next, ranks
	}
	return ranks
}

func launch(t *testing.T, g *graph.Graph, pr *PageRank, config pregel.Config) []float64 {
	p, err := pregel.New(g, config, pr)
	require.NoError(t, err)
	defer p.Release()
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, pregel.CONVERGED, result.State)
	return result.NodeValues.DoubleProperties(RANK)
}

func TestPageRankOracle(t *testing.T) {
	g, _ := graph.RandomGraph(200, 1000, 7, graph.Options{})
	for tCount := 0; tCount < 4; tCount++ {
		config := pregel.DefaultConfig()
		config.Concurrency = rand.Intn(8-1) + 1
		config.MaxIterations = 1000
		config.Asynchronous = tCount%2 == 1

		pr := &PageRank{DampingFactor: DAMPING_FACTOR, Tolerance: 1e-12}
		ranks := launch(t, g, pr, config)
		expected := oracle(g, pr, 400)

		maxDiff, at := utils.MaxDiff(expected, ranks)
		assert.Less(t, maxDiff, 1e-6, "node %d, concurrency %d", at, config.Concurrency)
		assert.NoError(t, pr.CheckCorrectness(ranks))
	}
}

func TestPersonalizedPageRank(t *testing.T) {
	g := graph.FromEdges(graph.Options{},
		graph.RawEdge{SrcRaw: 0, DstRaw: 1},
		graph.RawEdge{SrcRaw: 1, DstRaw: 2},
		graph.RawEdge{SrcRaw: 2, DstRaw: 0},
		graph.RawEdge{SrcRaw: 3, DstRaw: 0},
	)
	config := pregel.DefaultConfig()
	config.Concurrency = 2
	config.MaxIterations = 1000

	pr := &PageRank{DampingFactor: DAMPING_FACTOR, Tolerance: 1e-12, Sources: roaring.BitmapOf(0)}
	ranks := launch(t, g, pr, config)
	assert.Zero(t, ranks[3], "nothing reaches node 3")
	assert.Greater(t, ranks[0], ranks[1])
	assert.Greater(t, ranks[1], ranks[2])

	maxDiff, _ := utils.MaxDiff(oracle(g, pr, 400), ranks)
	assert.Less(t, maxDiff, 1e-6)
	assert.NoError(t, pr.CheckCorrectness(ranks))
}
