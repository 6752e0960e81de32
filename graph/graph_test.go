package graph

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(g *Graph, nodeId uint32, inverse bool) (neighbours []uint32, weights []float64) {
	fn := func(_, other uint32, weight float64) bool {
		neighbours = append(neighbours, other)
		weights = append(weights, weight)
		return true
	}
	if inverse {
		g.ForEachInverseRelationship(nodeId, 1.0, fn)
	} else {
		g.ForEachRelationship(nodeId, 1.0, fn)
	}
	return neighbours, weights
}

func Test_BuilderIdsAndLayout(t *testing.T) {
	g := FromEdges(Options{Weighted: true, Inverse: true},
		RawEdge{100, 200, 2.0},
		RawEdge{100, 300, 1.0},
		RawEdge{300, 200, 0.5},
	)
	require.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.RelationshipCount())
	assert.True(t, g.HasWeights())
	assert.True(t, g.HasInverseIndex())

	for nodeId, original := range []uint64{100, 200, 300} {
		assert.Equal(t, original, g.ToOriginalId(uint32(nodeId)))
		internal, ok := g.ToInternalId(original)
		assert.True(t, ok)
		assert.Equal(t, uint32(nodeId), internal)
	}
	_, ok := g.ToInternalId(42)
	assert.False(t, ok)

	targets, weights := collect(g, 0, false)
	assert.Equal(t, []uint32{1, 2}, targets)
	assert.Equal(t, []float64{2.0, 1.0}, weights)
	assert.Equal(t, 2, g.Degree(0))
	assert.Equal(t, 0, g.Degree(1))

	sources, inWeights := collect(g, 1, true)
	assert.Equal(t, []uint32{0, 2}, sources)
	assert.Equal(t, []float64{2.0, 0.5}, inWeights)
	assert.Equal(t, 2, g.InverseDegree(1))
	assert.Equal(t, 0, g.InverseDegree(0))
}

func Test_BuilderUnweightedUndirected(t *testing.T) {
	g := FromEdges(Options{Undirected: true}, RawEdge{0, 1, 5}, RawEdge{1, 2, 5}, RawEdge{2, 2, 5})
	assert.False(t, g.HasWeights())
	assert.False(t, g.HasInverseIndex())
	// Self loops are not mirrored.
	assert.Equal(t, 5, g.RelationshipCount())

	targets, weights := collect(g, 1, false)
	assert.Equal(t, []uint32{0, 2}, targets)
	assert.Equal(t, []float64{1.0, 1.0}, weights)
	assert.Panics(t, func() { g.InverseDegree(0) })
}

func Test_BuilderTranspose(t *testing.T) {
	g := FromEdges(Options{Transpose: true}, RawEdge{0, 1, 1})
	// Ids are assigned after flipping: node 1 is seen first.
	assert.Equal(t, uint64(1), g.ToOriginalId(0))
	assert.Equal(t, []uint32{1}, g.Targets(0))
}

func Test_NodeProperties(t *testing.T) {
	b := NewBuilder(Options{})
	b.AddEdge(7, 8, 1)
	b.SetNodeProperty(8, "seed", 42)
	b.AddNode(9)
	g := b.Build()

	column, ok := g.NodeProperty("seed")
	require.True(t, ok)
	require.Len(t, column, 3)
	assert.True(t, math.IsNaN(column[0]))
	assert.Equal(t, 42.0, column[1])
	assert.True(t, math.IsNaN(column[2]))

	_, ok = g.NodeProperty("missing")
	assert.False(t, ok)
}

func Test_LoadEdgeList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	contents := "# comment\n10 20 2.5\n% other comment\n\n10 30 1.5\n30 20 4\n20 40 1\n40 10 3\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	single, err := LoadEdgeList(Options{Name: path, LoadThreads: 1, WeightPos: 1, Weighted: true})
	require.NoError(t, err)
	multi, err := LoadEdgeList(Options{Name: path, LoadThreads: rand.Intn(8-1) + 1, WeightPos: 1, Weighted: true})
	require.NoError(t, err)

	for _, g := range []*Graph{single, multi} {
		require.Equal(t, 4, g.NodeCount())
		assert.Equal(t, 5, g.RelationshipCount())
		assert.Equal(t, []uint64{10, 20, 30, 40}, g.originalIds)
		_, weights := collect(g, 0, false)
		assert.Equal(t, []float64{2.5, 1.5}, weights)
	}
}

func Test_LoadEdgeListErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 2\n3 x\n"), 0o644))
	_, err := LoadEdgeList(Options{Name: path, LoadThreads: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	require.NoError(t, os.WriteFile(path, []byte("1 2\n"), 0o644))
	_, err = LoadEdgeList(Options{Name: path, LoadThreads: 1, WeightPos: 1})
	assert.ErrorContains(t, err, "no weight")

	_, err = LoadEdgeList(Options{Name: filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)
}

func Test_LoadEdgeListChunks(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	edges := make([]RawEdge, 3*LOAD_CHUNK_LINES+17)
	for i := range edges {
		edges[i] = RawEdge{uint64(rng.Intn(5000)), uint64(rng.Intn(5000)), float64(rng.Intn(100))}
	}
	path := filepath.Join(t.TempDir(), "chunks.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteEdgeList(f, edges, true))
	require.NoError(t, f.Close())

	expected := FromEdges(Options{Weighted: true}, edges...)
	loaded, err := LoadEdgeList(Options{Name: path, LoadThreads: 4, WeightPos: 1, Weighted: true})
	require.NoError(t, err)
	assert.Equal(t, expected.originalIds, loaded.originalIds)
	assert.Equal(t, expected.Edges(), loaded.Edges())

	// A bad line in the last chunk fails the load with its line number.
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	contents = append(contents, "1 x 2\n"...)
	require.NoError(t, os.WriteFile(path, contents, 0o644))
	_, err = LoadEdgeList(Options{Name: path, LoadThreads: 4, WeightPos: 1})
	assert.ErrorContains(t, err, "line "+strconv.Itoa(len(edges)+1))
}

func Test_RandomGraphMirror(t *testing.T) {
	g, mirror := RandomGraph(50, 300, 7, Options{Weighted: true, Inverse: true})
	require.Equal(t, 50, g.NodeCount())
	require.Equal(t, 300, g.RelationshipCount())
	assert.Equal(t, 300, mirror.WeightedEdges().Len())

	for v := 0; v < g.NodeCount(); v++ {
		g.ForEachRelationship(uint32(v), 1.0, func(source, target uint32, weight float64) bool {
			w, ok := mirror.Weight(int64(source), int64(target))
			assert.True(t, ok)
			assert.Equal(t, w, weight)
			assert.NotEqual(t, source, target)
			return true
		})
	}

	again, _ := RandomGraph(50, 300, 7, Options{Weighted: true})
	assert.Equal(t, g.targets, again.targets)

	und, undMirror := RandomGraph(20, 1000, 3, Options{Undirected: true})
	assert.Equal(t, 20*19, und.RelationshipCount())
	assert.Equal(t, 20*19, undMirror.WeightedEdges().Len())
}

func Test_WriteEdgeList(t *testing.T) {
	g, _ := RandomGraph(40, 120, 11, Options{Weighted: true})
	path := filepath.Join(t.TempDir(), "random.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteEdgeList(f, g.Edges(), true))
	require.NoError(t, f.Close())

	loaded, err := LoadEdgeList(Options{Name: path, LoadThreads: 3, WeightPos: 1, Weighted: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, g.Edges(), loaded.Edges())

	unweighted, err := LoadEdgeList(Options{Name: path, LoadThreads: 1})
	require.NoError(t, err)
	assert.False(t, unweighted.HasWeights())
	assert.Equal(t, 120, unweighted.RelationshipCount())
}
