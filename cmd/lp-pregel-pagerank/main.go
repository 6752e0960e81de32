package main

import (
	"flag"

	"github.com/ScottSallinen/lollipop-bsp/cmd/common"
	"github.com/ScottSallinen/lollipop-bsp/enforce"
)

func main() {
	dampingPtr := flag.Float64("df", DAMPING_FACTOR, "Damping factor.")
	tolerancePtr := flag.Float64("tol", DEFAULT_TOLERANCE, "Rank changes below this value are not propagated.")
	sourcesPtr := flag.String("s", "", "Comma separated raw ids of the personalization sources. Empty for global PageRank.")
	graphOptions, config := common.FlagsToOptions()

	g := common.LoadGraph(graphOptions)
	pr := &PageRank{DampingFactor: *dampingPtr, Tolerance: *tolerancePtr, Sources: common.ParseSources(g, *sourcesPtr)}
	result := common.Launch(g, config, pr, pr.Name(), graphOptions)

	ranks := result.NodeValues.DoubleProperties(RANK)
	if graphOptions.CheckCorrectness {
		enforce.ENFORCE(pr.CheckCorrectness(ranks))
		oracle := &PageRank{DampingFactor: pr.DampingFactor, Tolerance: ORACLE_TOLERANCE, Sources: pr.Sources}
		oracleConfig := config
		oracleConfig.MaxIterations = ORACLE_ITERATIONS
		oracleResult := common.Launch(g, oracleConfig, oracle, "PageRank oracle", graphOptions)
		common.OracleCompare(pr.Name(), oracleResult.NodeValues.DoubleProperties(RANK), ranks)
	}
	common.PrintTopN(g, ranks, 10)
	if graphOptions.WriteVertexProps {
		common.WriteVertexProps(g, common.ExtractGraphName(graphOptions.Name), result, RANK)
	}
}
