package main

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ScottSallinen/lollipop-bsp/graph"
	"github.com/ScottSallinen/lollipop-bsp/pregel"
)

func launch(t *testing.T, g *graph.Graph, config pregel.Config) []int64 {
	p, err := pregel.New(g, config, &CC{})
	require.NoError(t, err)
	defer p.Release()
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, pregel.CONVERGED, result.State)
	return result.NodeValues.LongProperties(COMPONENT)
}

func TestCCOracle(t *testing.T) {
	const nodeCount = 400
	for tCount := 0; tCount < 6; tCount++ {
		g, mirror := graph.RandomGraph(nodeCount, 300, int64(tCount), graph.Options{Inverse: true})

		config := pregel.DefaultConfig()
		config.Concurrency = rand.Intn(8-1) + 1
		config.MaxIterations = nodeCount
		config.Asynchronous = tCount%2 == 1
		components := launch(t, g, config)
		require.NoError(t, (&CC{}).CheckCorrectness(g, components))

		expected := topo.ConnectedComponents(gonum.Undirect{G: mirror})
		assert.Len(t, Sizes(components), len(expected))
		for _, members := range expected {
			smallest := members[0].ID()
			for _, n := range members {
				smallest = min(smallest, n.ID())
			}
			for _, n := range members {
				assert.Equal(t, smallest, components[n.ID()], "node %d", n.ID())
			}
		}
	}
}

func TestCCRequiresInverse(t *testing.T) {
	g, _ := graph.RandomGraph(10, 10, 1, graph.Options{})
	_, err := pregel.New(g, pregel.DefaultConfig(), &CC{})
	assert.ErrorIs(t, err, pregel.ErrMissingInverseIndex)
}

// Two components, {0, 3, 7, 8, 9} and {1, 2, 4, 5, 6}, with edges pointing both ways.
const testMultipleComponents = `# src dst
0 3
7 0
8 7
9 8
2 1
4 2
# the second component
5 4
5 6
`

func TestCCFromFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "test_multiple_components.txt")
	require.NoError(t, os.WriteFile(name, []byte(testMultipleComponents), 0o644))
	g, err := graph.LoadEdgeList(graph.Options{Name: name, LoadThreads: 2, Inverse: true})
	require.NoError(t, err)

	config := pregel.DefaultConfig()
	config.Concurrency = rand.Intn(8-1) + 1
	components := launch(t, g, config)

	// Labels are the first vertex of each component in file order.
	expectations := map[uint64]uint64{0: 0, 1: 2, 2: 2, 3: 0, 4: 2, 5: 2, 6: 2, 7: 0, 8: 0, 9: 0}
	for originalId, expected := range expectations {
		nodeId, ok := g.ToInternalId(originalId)
		require.True(t, ok)
		assert.Equal(t, expected, g.ToOriginalId(uint32(components[nodeId])), "node %d", originalId)
	}
}
