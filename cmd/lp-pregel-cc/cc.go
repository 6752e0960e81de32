package main

import (
	"errors"

	"github.com/ScottSallinen/lollipop-bsp/graph"
	"github.com/ScottSallinen/lollipop-bsp/pregel"
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

const COMPONENT = "component"

// CC labels weakly connected components with the smallest internal id they contain. Labels travel both ways along
// relationships, so the graph needs its inverse index.
type CC struct{}

func (*CC) Name() string   { return "WCC" }
func (*CC) Bidirectional() {}

func (*CC) Schema(pregel.Config) *pregel.Schema {
	return pregel.NewSchema().Add(COMPONENT, pregel.LONG)
}

func (*CC) Reducer() pregel.Reducer { return pregel.MinReducer{} }

func (*CC) Compute(ctx *pregel.ComputeContext, messages *pregel.Messages) {
	if ctx.IsInitialSuperstep() {
		component := int64(ctx.NodeId())
		ctx.SetLong(COMPONENT, component)
		ctx.SendToNeighbors(float64(component))
		ctx.SendToIncomingNeighbors(float64(component))
	} else if candidate, ok := messages.Next(); ok && int64(candidate) < ctx.Long(COMPONENT) {
		ctx.SetLong(COMPONENT, int64(candidate))
		ctx.SendToNeighbors(candidate)
		ctx.SendToIncomingNeighbors(candidate)
	}
	ctx.VoteToHalt()
}

// CheckCorrectness verifies that both ends of every relationship share a component,
// and that every component is labelled by one of its members.
func (*CC) CheckCorrectness(g *graph.Graph, components []int64) error {
	for v := range components {
		for _, target := range g.Targets(uint32(v)) {
			if components[v] != components[target] {
				return errors.New("relationship " + utils.V(g.ToOriginalId(uint32(v))) + " -> " +
					utils.V(g.ToOriginalId(target)) + " crosses components")
			}
		}
		if label := components[v]; label < 0 || int(label) >= len(components) || components[label] != label {
			return errors.New("component " + utils.V(label) + " of " + utils.V(g.ToOriginalId(uint32(v))) + " does not label itself")
		}
	}
	return nil
}

// Sizes returns the number of vertices of each component.
func Sizes(components []int64) map[int64]int {
	sizes := make(map[int64]int)
	for _, c := range components {
		sizes[c]++
	}
	return sizes
}
