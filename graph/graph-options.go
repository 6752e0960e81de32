package graph

import (
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

type Options struct {
	Name             string // Path of the input edge list.
	LoadThreads      int    // Number of threads parsing the edge list.
	WeightPos        int    // Logical (not zero-indexed) position of the weight after [src, dst]. 0 means no weight in the file, or not desired.
	Weighted         bool   // Keep relationship weights in the graph.
	Undirected       bool   // Add the reverse of every edge.
	Transpose        bool   // Flip src and dst of every edge.
	Inverse          bool   // Build the index of incoming relationships.
	DebugLevel       int    // 0 for info, 1 for debug, 2 for trace.
	Profile          bool   // Log memory statistics along the run.
	WriteVertexProps bool   // Write the result values to disk at the end.
	CheckCorrectness bool   // Run the algorithm's own checks at the end (might be slow).
}

// FlagsToOptions parses the command line. Declare your own flags before you call this function.
func FlagsToOptions() (options Options) {
	graphPtr := flag.String("g", "", "Graph file: an edge list of [src dst (weight)] lines; # and % start comments.")
	weightPosPtr := flag.Int("pw", 0, "Logical position of weight after [src, dst]. \nExample: [src, dst, weight], use 1. \nValue 0 means no weight in events, or not desired.")
	undirectedPtr := flag.Bool("u", false, "Interpret the input graph as undirected (add the reverse of every edge).")
	transposePtr := flag.Bool("tr", false, "Interpret the input graph edges in reverse (flip src and dst).")
	inversePtr := flag.Bool("inv", false, "Build the inverse index (incoming relationships). Some algorithms set this by default.")
	threadLoadPtr := flag.Int("tg", 2, "Threads parsing the graph file.")
	debugPtr := flag.Int("debug", 0, "Level 0 for info, 1 for debug, 2 for trace.")
	colourPtr := flag.Bool("nc", false, "Removes the colouring from the log output.")
	profilePtr := flag.Bool("profile", false, "Print memory statistics along the run.")
	pprofPtr := flag.String("pprof", "", "If set, will serve pprof on the given address:port. E.g.\"0.0.0.0:6060\".")
	propPtr := flag.Bool("p", false, "Save vertex properties to disk at the end.")
	checkPtr := flag.Bool("c", false, "Check correctness after execution.")
	flag.Parse()

	if *colourPtr {
		utils.SetLoggerConsole(true)
	}
	utils.SetLevel(*debugPtr)

	if *graphPtr == "" {
		flag.Usage()
		os.Exit(1)
	}

	if *pprofPtr != "" {
		go func() {
			log.Info().Msg("pprof Starting on " + *pprofPtr)
			if err := http.ListenAndServe(*pprofPtr, nil); err != nil {
				log.Error().Err(err).Msg("pprof Failed to start.")
			}
		}()
	}

	loadThreads := *threadLoadPtr
	if loadThreads <= 0 {
		log.Panic().Msg("Invalid load thread count.")
	} else if loadThreads > runtime.NumCPU() {
		log.Warn().Msg("Load thread count is greater than CPU count?")
	}

	return Options{
		Name:             *graphPtr,
		LoadThreads:      loadThreads,
		WeightPos:        *weightPosPtr,
		Weighted:         *weightPosPtr > 0,
		Undirected:       *undirectedPtr,
		Transpose:        *transposePtr,
		Inverse:          *inversePtr,
		DebugLevel:       *debugPtr,
		Profile:          *profilePtr,
		WriteVertexProps: *propPtr,
		CheckCorrectness: *checkPtr,
	}
}
