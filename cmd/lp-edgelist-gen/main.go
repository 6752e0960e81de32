package main

import (
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/enforce"
	"github.com/ScottSallinen/lollipop-bsp/graph"
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

// Writes an edge list, either generated or read from -g, optionally shuffled.
func main() {
	inputPtr := flag.String("g", "", "Edge list to rewrite. Empty to generate a random graph.")
	nodesPtr := flag.Int("n", 1000, "Node count of the random graph.")
	edgesPtr := flag.Int("m", 10000, "Edge count of the random graph.")
	seedPtr := flag.Int64("seed", time.Now().UnixNano(), "Seed of the random graph.")
	weightedPtr := flag.Bool("w", false, "Write integer weights in [1, 10] (random), or keep the weights at position 1 (input).")
	shufflePtr := flag.Bool("s", false, "Shuffle the order of the edges.")
	outputPtr := flag.String("o", "data/edges.txt", "Output file.")
	threadsPtr := flag.Int("tg", 2, "Threads parsing the input.")
	debugPtr := flag.Int("debug", 0, "Level 0 for info, 1 for debug, 2 for trace.")
	flag.Parse()
	utils.SetLevel(*debugPtr)

	var g *graph.Graph
	if *inputPtr != "" {
		options := graph.Options{Name: *inputPtr, LoadThreads: *threadsPtr, Weighted: *weightedPtr}
		if *weightedPtr {
			options.WeightPos = 1
		}
		var err error
		g, err = graph.LoadEdgeList(options)
		enforce.ENFORCE(err)
	} else {
		g, _ = graph.RandomGraph(*nodesPtr, *edgesPtr, *seedPtr, graph.Options{Name: "random", Weighted: *weightedPtr})
		log.Info().Msg("Generated " + utils.V(g.NodeCount()) + " nodes, " + utils.V(g.RelationshipCount()) + " edges, seed " + utils.V(*seedPtr))
	}

	edges := g.Edges()
	if *shufflePtr {
		utils.Shuffle(edges)
	}
	f := utils.CreateFile(*outputPtr)
	defer f.Close()
	enforce.ENFORCE(graph.WriteEdgeList(f, edges, *weightedPtr))
	log.Info().Msg("Wrote " + utils.V(len(edges)) + " edges to " + *outputPtr)
	g.LogStats()
}
