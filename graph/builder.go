package graph

import (
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

type RawEdge struct {
	SrcRaw uint64
	DstRaw uint64
	Weight float64
}

// Builder collects nodes and relationships by original id, then lays them out as a Graph.
// Internal ids are assigned in order of first appearance.
type Builder struct {
	options     Options
	originalIds []uint64
	internalIds map[uint64]uint32
	sources     []uint32
	targets     []uint32
	weights     []float64
	properties  map[string][]float64
}

func NewBuilder(options Options) *Builder {
	return &Builder{
		options:     options,
		internalIds: make(map[uint64]uint32),
		properties:  make(map[string][]float64),
	}
}

// AddNode returns the internal id of originalId, assigning the next one if it is new.
func (b *Builder) AddNode(originalId uint64) uint32 {
	if nodeId, ok := b.internalIds[originalId]; ok {
		return nodeId
	}
	nodeId := uint32(len(b.originalIds))
	b.internalIds[originalId] = nodeId
	b.originalIds = append(b.originalIds, originalId)
	return nodeId
}

func (b *Builder) AddEdge(src, dst uint64, weight float64) {
	if b.options.Transpose {
		src, dst = dst, src
	}
	s, d := b.AddNode(src), b.AddNode(dst)
	b.sources = append(b.sources, s)
	b.targets = append(b.targets, d)
	b.weights = append(b.weights, weight)
	if b.options.Undirected && s != d {
		b.sources = append(b.sources, d)
		b.targets = append(b.targets, s)
		b.weights = append(b.weights, weight)
	}
}

// SetNodeProperty stores a value for the node, adding the node if it is new.
func (b *Builder) SetNodeProperty(originalId uint64, key string, value float64) {
	nodeId := b.AddNode(originalId)
	column := b.properties[key]
	if len(column) <= int(nodeId) {
		grown := nanColumn(utils.Max(int(nodeId)+1, 2*len(column)))
		copy(grown, column)
		column = grown
	}
	column[nodeId] = value
	b.properties[key] = column
}

// Build lays out the relationships. Relationships of a node keep the order they were added in.
func (b *Builder) Build() *Graph {
	n := len(b.originalIds)
	g := &Graph{
		Name:        b.options.Name,
		originalIds: b.originalIds,
		internalIds: b.internalIds,
		properties:  make(map[string][]float64, len(b.properties)),
	}
	var weights []float64
	if b.options.Weighted {
		weights = b.weights
	}
	g.offsets, g.targets, g.weights = layout(n, b.sources, b.targets, weights)
	if b.options.Inverse {
		g.inOffsets, g.inSources, g.inWeights = layout(n, b.targets, b.sources, weights)
	}
	for key, column := range b.properties {
		full := nanColumn(n)
		copy(full, column)
		g.properties[key] = full
	}
	return g
}

// Counting sort of the relationships by their from side.
func layout(n int, from, to []uint32, weights []float64) (offsets []uint64, adj []uint32, adjWeights []float64) {
	offsets = make([]uint64, n+1)
	for _, f := range from {
		offsets[f+1]++
	}
	for v := 0; v < n; v++ {
		offsets[v+1] += offsets[v]
	}
	adj = make([]uint32, len(to))
	if weights != nil {
		adjWeights = make([]float64, len(to))
	}
	next := make([]uint64, n)
	copy(next, offsets[:n])
	for i, f := range from {
		pos := next[f]
		next[f]++
		adj[pos] = to[i]
		if weights != nil {
			adjWeights[pos] = weights[i]
		}
	}
	return offsets, adj, adjWeights
}

// FromEdges builds a graph from raw edges in the given order.
func FromEdges(options Options, edges ...RawEdge) *Graph {
	b := NewBuilder(options)
	for _, e := range edges {
		b.AddEdge(e.SrcRaw, e.DstRaw, e.Weight)
	}
	return b.Build()
}
