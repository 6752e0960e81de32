package pregel

import "fmt"

// Computation is the user supplied algorithm.
// Compute runs once per superstep for every vertex that did not vote to halt or has messages, and always in
// the first superstep. The optional interfaces below add capabilities; the engine detects them on construction.
type Computation interface {
	// Schema declares the per-vertex values of the computation.
	Schema(config Config) *Schema
	Compute(ctx *ComputeContext, messages *Messages)
}

// Initializer runs Init once per vertex before the first superstep.
type Initializer interface {
	Init(ctx *InitContext)
}

// MasterComputation runs MasterCompute single threaded after every superstep.
// Returning true ends the run as converged.
type MasterComputation interface {
	MasterCompute(ctx *MasterComputeContext) bool
}

// ReducingComputation combines the messages to each vertex with the given reducer.
type ReducingComputation interface {
	Reducer() Reducer
}

// WeightedComputation transforms each message sent to neighbours by the weight of the relationship it travels.
type WeightedComputation interface {
	ApplyRelationshipWeight(message, weight float64) float64
}

// BidirectionalComputation may read and message incoming neighbours, which requires an InverseGraph.
type BidirectionalComputation interface {
	Computation
	Bidirectional()
}

// ClosingComputation is closed when the engine is released.
type ClosingComputation interface {
	Close()
}

// NamedComputation names the computation in logs and errors.
type NamedComputation interface {
	Name() string
}

func computationName(c Computation) string {
	if named, ok := c.(NamedComputation); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", c)
}
