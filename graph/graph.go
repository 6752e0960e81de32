package graph

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/pregel"
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

// Graph is an immutable compressed sparse row graph: the relationships of node v are targets[offsets[v]:offsets[v+1]].
// The inverse index, when built, holds the same relationships grouped by target.
// Node ids are dense internal ids; the id map translates from and to the original ids of the input.
type Graph struct {
	Name string

	offsets []uint64
	targets []uint32
	weights []float64 // nil for unweighted graphs.

	inOffsets []uint64 // nil unless the inverse index was built.
	inSources []uint32
	inWeights []float64

	originalIds []uint64
	internalIds map[uint64]uint32
	properties  map[string][]float64
}

var _ pregel.InverseGraph = (*Graph)(nil)
var _ pregel.PropertyGraph = (*Graph)(nil)

func (g *Graph) NodeCount() int {
	return len(g.originalIds)
}

func (g *Graph) RelationshipCount() int {
	return len(g.targets)
}

func (g *Graph) Degree(nodeId uint32) int {
	return int(g.offsets[nodeId+1] - g.offsets[nodeId])
}

func (g *Graph) HasWeights() bool {
	return g.weights != nil
}

func (g *Graph) ToOriginalId(nodeId uint32) uint64 {
	return g.originalIds[nodeId]
}

func (g *Graph) ToInternalId(originalId uint64) (uint32, bool) {
	nodeId, ok := g.internalIds[originalId]
	return nodeId, ok
}

// Targets returns the out-neighbours of nodeId. The slice aliases the graph.
func (g *Graph) Targets(nodeId uint32) []uint32 {
	return g.targets[g.offsets[nodeId]:g.offsets[nodeId+1]]
}

func (g *Graph) ForEachRelationship(nodeId uint32, fallbackWeight float64, consumer pregel.RelationshipConsumer) {
	forEach(nodeId, g.offsets, g.targets, g.weights, fallbackWeight, consumer)
}

func forEach(nodeId uint32, offsets []uint64, adj []uint32, weights []float64, fallbackWeight float64, consumer pregel.RelationshipConsumer) {
	start, end := offsets[nodeId], offsets[nodeId+1]
	for i := start; i < end; i++ {
		weight := fallbackWeight
		if weights != nil {
			weight = weights[i]
		}
		if !consumer(nodeId, adj[i], weight) {
			return
		}
	}
}

// ConcurrentCopy returns the graph itself; traversal keeps no state, so any number of workers can share it.
func (g *Graph) ConcurrentCopy() pregel.Graph {
	return g
}

func (g *Graph) HasInverseIndex() bool {
	return g.inOffsets != nil
}

func (g *Graph) InverseDegree(nodeId uint32) int {
	if g.inOffsets == nil {
		log.Panic().Msg("Graph " + g.Name + " has no inverse index")
	}
	return int(g.inOffsets[nodeId+1] - g.inOffsets[nodeId])
}

func (g *Graph) ForEachInverseRelationship(nodeId uint32, fallbackWeight float64, consumer pregel.RelationshipConsumer) {
	if g.inOffsets == nil {
		log.Panic().Msg("Graph " + g.Name + " has no inverse index")
	}
	forEach(nodeId, g.inOffsets, g.inSources, g.inWeights, fallbackWeight, consumer)
}

// NodeProperty returns the column of a node property; nodes without a value hold NaN.
func (g *Graph) NodeProperty(key string) ([]float64, bool) {
	column, ok := g.properties[key]
	return column, ok
}

// LogStats prints the degree distribution and size of the graph.
func (g *Graph) LogStats() {
	n := g.NodeCount()
	if n == 0 {
		log.Info().Msg("Graph " + g.Name + " is empty")
		return
	}
	degrees := make([]int, n)
	sinks := 0
	for v := range degrees {
		degrees[v] = g.Degree(uint32(v))
		if degrees[v] == 0 {
			sinks++
		}
	}
	bytes := len(g.offsets)*8 + len(g.targets)*4 + len(g.weights)*8 + len(g.inOffsets)*8 + len(g.inSources)*4 +
		len(g.inWeights)*8 + len(g.originalIds)*8
	log.Info().Msg("Graph " + g.Name + ": nodes " + utils.V(n) + ", relationships " + utils.V(g.RelationshipCount()) +
		", weighted " + utils.V(g.HasWeights()) + ", inverse " + utils.V(g.HasInverseIndex()) + ", size " + utils.Bytes(bytes))
	log.Info().Msg("Out degree: max " + utils.V(utils.MaxSlice(degrees)) + ", median " + utils.V(utils.Median(degrees)) +
		", 99th " + utils.V(utils.Percentile(degrees, 99)) + ", mean " + utils.F("%.3f", float64(g.RelationshipCount())/float64(n)) +
		", sinks " + utils.V(sinks))
}

func nanColumn(n int) []float64 {
	column := make([]float64, n)
	for i := range column {
		column[i] = math.NaN()
	}
	return column
}
