package pregel

import (
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

// nodeContext is the part shared by the init and compute contexts: the current vertex, its values and topology.
// Each worker owns its contexts; they are not safe for concurrent use.
type nodeContext struct {
	graph  Graph
	values *NodeValues
	config *Config
	nodeId uint32
}

func (c *nodeContext) NodeId() uint32         { return c.nodeId }
func (c *nodeContext) NodeCount() int         { return c.graph.NodeCount() }
func (c *nodeContext) RelationshipCount() int { return c.graph.RelationshipCount() }
func (c *nodeContext) Degree() int            { return c.graph.Degree(c.nodeId) }
func (c *nodeContext) Config() Config         { return *c.config }

// ToOriginalId returns the external id of the current vertex.
func (c *nodeContext) ToOriginalId() uint64 { return c.graph.ToOriginalId(c.nodeId) }

// OriginalIdOf returns the external id of any vertex.
func (c *nodeContext) OriginalIdOf(nodeId uint32) uint64 { return c.graph.ToOriginalId(nodeId) }

func (c *nodeContext) ToInternalId(originalId uint64) (uint32, bool) {
	return c.graph.ToInternalId(originalId)
}

func (c *nodeContext) Long(key string) int64               { return c.values.Long(key, c.nodeId) }
func (c *nodeContext) SetLong(key string, value int64)     { c.values.SetLong(key, c.nodeId, value) }
func (c *nodeContext) Double(key string) float64           { return c.values.Double(key, c.nodeId) }
func (c *nodeContext) SetDouble(key string, value float64) { c.values.SetDouble(key, c.nodeId, value) }
func (c *nodeContext) LongArray(key string) []int64        { return c.values.LongArray(key, c.nodeId) }
func (c *nodeContext) SetLongArray(key string, values []int64) {
	c.values.SetLongArray(key, c.nodeId, values)
}
func (c *nodeContext) DoubleArray(key string) []float64 { return c.values.DoubleArray(key, c.nodeId) }
func (c *nodeContext) SetDoubleArray(key string, values []float64) {
	c.values.SetDoubleArray(key, c.nodeId, values)
}

// ForEachNeighbor visits the outgoing relationships of the current vertex until fn returns false.
func (c *nodeContext) ForEachNeighbor(fn func(target uint32, weight float64) bool) {
	c.graph.ForEachRelationship(c.nodeId, c.config.DefaultWeight, func(_, target uint32, weight float64) bool {
		return fn(target, weight)
	})
}

type InitContext struct {
	nodeContext
	properties PropertyGraph
}

// NodeProperty returns the value the graph holds for the current vertex under key.
func (c *InitContext) NodeProperty(key string) (float64, bool) {
	if c.properties == nil {
		return 0, false
	}
	column, ok := c.properties.NodeProperty(key)
	if !ok {
		return 0, false
	}
	return column[c.nodeId], true
}

type ComputeContext struct {
	nodeContext
	messenger Messenger
	voteBits  utils.AtomicBitmap
	superstep int
	weighter  WeightedComputation // nil unless messages are weighted.
	inverse   InverseGraph        // nil unless the computation is bidirectional.
	sent      int

	message float64
	sendFn  RelationshipConsumer
}

func newComputeContext(graph Graph, values *NodeValues, config *Config, messenger Messenger, voteBits utils.AtomicBitmap) *ComputeContext {
	c := &ComputeContext{
		nodeContext: nodeContext{graph: graph, values: values, config: config},
		messenger:   messenger,
		voteBits:    voteBits,
	}
	c.sendFn = func(_, target uint32, weight float64) bool {
		message := c.message
		if c.weighter != nil {
			message = c.weighter.ApplyRelationshipWeight(message, weight)
		}
		c.messenger.Push(c.nodeId, target, message)
		c.sent++
		return true
	}
	return c
}

func (c *ComputeContext) Superstep() int           { return c.superstep }
func (c *ComputeContext) IsInitialSuperstep() bool { return c.superstep == 0 }

// SendToNeighbors sends message along every outgoing relationship.
func (c *ComputeContext) SendToNeighbors(message float64) {
	c.message = message
	c.graph.ForEachRelationship(c.nodeId, c.config.DefaultWeight, c.sendFn)
}

// SendTo sends message to any vertex. Relationship weights do not apply.
func (c *ComputeContext) SendTo(target uint32, message float64) {
	c.messenger.Push(c.nodeId, target, message)
	c.sent++
}

// VoteToHalt deactivates the current vertex until it receives a message.
func (c *ComputeContext) VoteToHalt() {
	c.voteBits.Set(c.nodeId)
}

func (c *ComputeContext) checkBidirectional() {
	if c.inverse == nil {
		log.Panic().Msg("Incoming relationships are only available to a BidirectionalComputation")
	}
}

func (c *ComputeContext) IncomingDegree() int {
	c.checkBidirectional()
	return c.inverse.InverseDegree(c.nodeId)
}

// ForEachIncomingNeighbor visits the incoming relationships of the current vertex until fn returns false.
func (c *ComputeContext) ForEachIncomingNeighbor(fn func(source uint32, weight float64) bool) {
	c.checkBidirectional()
	c.inverse.ForEachInverseRelationship(c.nodeId, c.config.DefaultWeight, func(_, source uint32, weight float64) bool {
		return fn(source, weight)
	})
}

// SendToIncomingNeighbors sends message against every incoming relationship.
func (c *ComputeContext) SendToIncomingNeighbors(message float64) {
	c.checkBidirectional()
	c.message = message
	c.inverse.ForEachInverseRelationship(c.nodeId, c.config.DefaultWeight, c.sendFn)
}

// MasterComputeContext gives the master computation access to every vertex. No worker runs alongside it.
type MasterComputeContext struct {
	graph     Graph
	values    *NodeValues
	config    *Config
	superstep int
}

func (c *MasterComputeContext) Superstep() int           { return c.superstep }
func (c *MasterComputeContext) IsInitialSuperstep() bool { return c.superstep == 0 }
func (c *MasterComputeContext) NodeCount() int           { return c.graph.NodeCount() }
func (c *MasterComputeContext) RelationshipCount() int   { return c.graph.RelationshipCount() }
func (c *MasterComputeContext) Config() Config           { return *c.config }

func (c *MasterComputeContext) ToOriginalId(nodeId uint32) uint64 {
	return c.graph.ToOriginalId(nodeId)
}
func (c *MasterComputeContext) ToInternalId(originalId uint64) (uint32, bool) {
	return c.graph.ToInternalId(originalId)
}

// ForEachNode visits the vertices in id order until fn returns false.
func (c *MasterComputeContext) ForEachNode(fn func(nodeId uint32) bool) {
	for nodeId, n := uint32(0), uint32(c.graph.NodeCount()); nodeId < n; nodeId++ {
		if !fn(nodeId) {
			return
		}
	}
}

func (c *MasterComputeContext) Long(key string, nodeId uint32) int64 {
	return c.values.Long(key, nodeId)
}
func (c *MasterComputeContext) SetLong(key string, nodeId uint32, value int64) {
	c.values.SetLong(key, nodeId, value)
}
func (c *MasterComputeContext) Double(key string, nodeId uint32) float64 {
	return c.values.Double(key, nodeId)
}
func (c *MasterComputeContext) SetDouble(key string, nodeId uint32, value float64) {
	c.values.SetDouble(key, nodeId, value)
}
func (c *MasterComputeContext) LongArray(key string, nodeId uint32) []int64 {
	return c.values.LongArray(key, nodeId)
}
func (c *MasterComputeContext) SetLongArray(key string, nodeId uint32, values []int64) {
	c.values.SetLongArray(key, nodeId, values)
}
func (c *MasterComputeContext) DoubleArray(key string, nodeId uint32) []float64 {
	return c.values.DoubleArray(key, nodeId)
}
func (c *MasterComputeContext) SetDoubleArray(key string, nodeId uint32, values []float64) {
	c.values.SetDoubleArray(key, nodeId, values)
}
