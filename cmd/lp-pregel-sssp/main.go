package main

import (
	"flag"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/cmd/common"
	"github.com/ScottSallinen/lollipop-bsp/enforce"
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

func main() {
	sourcesPtr := flag.String("s", "1", "Comma separated raw ids of the source vertices.")
	graphOptions, config := common.FlagsToOptions()
	config.TrackSender = true // Predecessors.
	config.UseWeights = true  // Unweighted graphs count hops.

	g := common.LoadGraph(graphOptions)
	sssp := &SSSP{Sources: common.ParseSources(g, *sourcesPtr)}
	enforce.ENFORCE(!sssp.Sources.IsEmpty(), "no source vertex in the graph")
	result := common.Launch(g, config, sssp, sssp.Name(), graphOptions)

	distances := result.NodeValues.DoubleProperties(DISTANCE)
	reached, furthest := 0, 0.0
	for _, d := range distances {
		if !math.IsInf(d, 1) {
			reached++
			furthest = math.Max(furthest, d)
		}
	}
	log.Info().Msg("Reached " + utils.V(reached) + " of " + utils.V(len(distances)) + " vertices, furthest at " + utils.V(furthest))

	if graphOptions.CheckCorrectness {
		enforce.ENFORCE(sssp.CheckCorrectness(g, result.NodeValues, config.TrackSender))
	}
	if graphOptions.WriteVertexProps {
		common.WriteVertexProps(g, common.ExtractGraphName(graphOptions.Name), result, DISTANCE, PREDECESSOR)
	}
}
