package pregel

// IdMap translates between the externally visible node ids and the dense internal id space [0, NodeCount).
type IdMap interface {
	NodeCount() int
	ToOriginalId(nodeId uint32) uint64
	ToInternalId(originalId uint64) (nodeId uint32, ok bool)
}

// RelationshipConsumer is called per relationship; returning false stops the traversal.
type RelationshipConsumer func(source, target uint32, weight float64) bool

// Graph is the read-only topology the engine runs on.
// Implementations must allow concurrent reads; each worker traverses through its own ConcurrentCopy.
type Graph interface {
	IdMap
	RelationshipCount() int
	Degree(nodeId uint32) int
	// HasWeights reports whether relationships carry a weight; otherwise traversal yields fallbackWeight.
	HasWeights() bool
	ForEachRelationship(nodeId uint32, fallbackWeight float64, consumer RelationshipConsumer)
	ConcurrentCopy() Graph
}

// InverseGraph is a Graph that can also traverse incoming relationships.
type InverseGraph interface {
	Graph
	HasInverseIndex() bool
	InverseDegree(nodeId uint32) int
	// ForEachInverseRelationship yields (nodeId, source, weight) for every relationship source -> nodeId.
	ForEachInverseRelationship(nodeId uint32, fallbackWeight float64, consumer RelationshipConsumer)
}

// PropertyGraph exposes node property columns loaded alongside the topology, indexed by internal id.
type PropertyGraph interface {
	NodeProperty(key string) ([]float64, bool)
}

func hasInverseIndex(g Graph) bool {
	ig, ok := g.(InverseGraph)
	return ok && ig.HasInverseIndex()
}
