package main

import (
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/cmd/common"
	"github.com/ScottSallinen/lollipop-bsp/enforce"
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

func main() {
	graphOptions, config := common.FlagsToOptions()
	graphOptions.Inverse = true

	g := common.LoadGraph(graphOptions)
	cc := &CC{}
	result := common.Launch(g, config, cc, cc.Name(), graphOptions)

	components := result.NodeValues.LongProperties(COMPONENT)
	sizes := Sizes(components)
	largest := 0
	for _, size := range sizes {
		largest = utils.Max(largest, size)
	}
	log.Info().Msg("Components: " + utils.V(len(sizes)) + ", largest " + utils.V(largest))

	if graphOptions.CheckCorrectness {
		enforce.ENFORCE(cc.CheckCorrectness(g, components))
	}
	if graphOptions.WriteVertexProps {
		common.WriteVertexProps(g, common.ExtractGraphName(graphOptions.Name), result, COMPONENT)
	}
}
