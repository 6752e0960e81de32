package graph

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/graph/simple"
)

// RandomGraph creates a graph with n nodes and m distinct edges, without self loops.
// Original ids equal internal ids. The gonum mirror holds the same relationships, for oracle computations.
// With options.Weighted, weights are integers in [1, 10] so that path sums are exact.
func RandomGraph(n, m int, seed int64, options Options) (*Graph, *simple.WeightedDirectedGraph) {
	rng := rand.New(rand.NewSource(seed))
	mirror := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	b := NewBuilder(options)
	for i := 0; i < n; i++ {
		b.AddNode(uint64(i))
		mirror.AddNode(simple.Node(i))
	}
	if n < 2 {
		return b.Build(), mirror
	}
	maxEdges := n * (n - 1)
	if options.Undirected {
		maxEdges /= 2
	}
	m = min(m, maxEdges)

	for added := 0; added < m; {
		src, dst := int64(rng.Intn(n)), int64(rng.Intn(n))
		from, to := src, dst // The builder transposes on its own; the mirror needs it done here.
		if options.Transpose {
			from, to = dst, src
		}
		if src == dst || mirror.HasEdgeFromTo(from, to) {
			continue
		}
		weight := 1.0
		if options.Weighted {
			weight = float64(rng.Intn(10) + 1)
		}
		if options.Undirected {
			if mirror.HasEdgeFromTo(to, from) {
				continue
			}
			mirror.SetWeightedEdge(mirror.NewWeightedEdge(simple.Node(to), simple.Node(from), weight))
		}
		mirror.SetWeightedEdge(mirror.NewWeightedEdge(simple.Node(from), simple.Node(to), weight))
		b.AddEdge(uint64(src), uint64(dst), weight)
		added++
	}
	return b.Build(), mirror
}
