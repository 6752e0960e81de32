package common

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/enforce"
	"github.com/ScottSallinen/lollipop-bsp/graph"
	"github.com/ScottSallinen/lollipop-bsp/pregel"
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

const PROGRESS_INTERVAL = 2 * time.Second

// FlagsToOptions declares the engine flags, then parses the command line through graph.FlagsToOptions.
// Declare algorithm flags before calling this function.
func FlagsToOptions() (graph.Options, pregel.Config) {
	config := pregel.DefaultConfig()
	threadsPtr := flag.Int("t", config.Concurrency, "Thread count (partitions of the graph).")
	iterationsPtr := flag.Int("i", config.MaxIterations, "Maximum number of supersteps.")
	asyncPtr := flag.Bool("async", false, "Deliver messages within the superstep they are sent in.")
	partitioningPtr := flag.String("part", config.Partitioning.String(), "Partitioning: RANGE, DEGREE or AUTO.")
	maxQueuePtr := flag.Int("maxq", 0, "Upper bound of pending messages per vertex; 0 for unbounded.")
	senderPtr := flag.Bool("sender", false, "Track the sender of reduced messages.")
	graphOptions := graph.FlagsToOptions()

	partitioning, ok := pregel.ParsePartitioning(*partitioningPtr)
	if !ok {
		log.Panic().Msg("Unknown partitioning: " + *partitioningPtr)
	}
	config.Concurrency = *threadsPtr
	config.MaxIterations = *iterationsPtr
	config.Asynchronous = *asyncPtr
	config.Partitioning = partitioning
	config.MaxQueueSize = *maxQueuePtr
	config.TrackSender = *senderPtr
	return graphOptions, config
}

// ExtractGraphName returns the file name of the graph without directories or extension.
func ExtractGraphName(graphFilename string) (graphName string) {
	gNameMainT := strings.Split(graphFilename, "/")
	gNameMain := gNameMainT[len(gNameMainT)-1]
	gNameMainTD := strings.Split(gNameMain, ".")
	if len(gNameMainTD) > 1 {
		return gNameMainTD[len(gNameMainTD)-2]
	}
	return gNameMainTD[0]
}

func LoadGraph(options graph.Options) *graph.Graph {
	g, err := graph.LoadEdgeList(options)
	enforce.ENFORCE(err)
	g.LogStats()
	if options.Profile {
		utils.MemoryStats()
	}
	return g
}

// ParseSources maps raw ids, separated by commas, to internal ids. Unknown ids are skipped with a warning.
func ParseSources(g *graph.Graph, raw string) *roaring.Bitmap {
	sources := roaring.New()
	for _, field := range strings.Split(raw, ",") {
		if field = strings.TrimSpace(field); field == "" {
			continue
		}
		originalId, err := strconv.ParseUint(field, 10, 64)
		enforce.ENFORCE(err, "source "+field)
		nodeId, ok := g.ToInternalId(originalId)
		if !ok {
			log.Warn().Msg("Source " + field + " is not in the graph")
			continue
		}
		sources.Add(nodeId)
	}
	return sources
}

// Launch runs the computation to its end. An interrupt aborts the run, which still returns the values so far.
func Launch(g *graph.Graph, config pregel.Config, computation pregel.Computation, name string, options graph.Options) *pregel.Result {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tracker := pregel.NewLogProgressTracker(name, g.NodeCount(), config.MaxIterations, PROGRESS_INTERVAL)
	p, err := pregel.New(g, config, computation, pregel.WithProgressTracker(tracker))
	enforce.ENFORCE(err)
	defer p.Release()

	result, err := p.Run(ctx)
	enforce.ENFORCE(err)
	log.Info().Msg(name + " " + result.State.String() + ", ran " + utils.V(result.RanIterations) + " supersteps, halted vertices " +
		utils.V(result.Halted().GetCardinality()) + ", elapsed " + utils.V(result.Elapsed.Milliseconds()) + "ms")
	if options.Profile {
		utils.MemoryStats()
	}
	return result
}

// WriteVertexProps writes one line per vertex: its original id, then the given values.
func WriteVertexProps(g *graph.Graph, graphName string, result *pregel.Result, keys ...string) {
	filename := "results/" + graphName + "-props.txt"
	enforce.ENFORCE(os.MkdirAll("results", 0o755))
	f := utils.CreateFile(filename)
	defer f.Close()

	var line strings.Builder
	for v := uint32(0); v < uint32(g.NodeCount()); v++ {
		line.Reset()
		line.WriteString(strconv.FormatUint(g.ToOriginalId(v), 10))
		for _, key := range keys {
			line.WriteString(" ")
			line.WriteString(formatValue(result.NodeValues, key, v))
		}
		line.WriteString("\n")
		_, err := f.WriteString(line.String())
		enforce.ENFORCE(err)
	}
	log.Info().Msg("Wrote vertex properties to " + filename)
}

func formatValue(values pregel.Snapshot, key string, nodeId uint32) string {
	offset, ok := values.Schema().Offset(key)
	enforce.ENFORCE(ok, "unknown key "+key)
	switch values.Schema().Elements()[offset].Type {
	case pregel.LONG:
		return strconv.FormatInt(values.Long(key, nodeId), 10)
	case pregel.DOUBLE:
		return strconv.FormatFloat(values.Double(key, nodeId), 'g', -1, 64)
	case pregel.LONG_ARRAY:
		return utils.V(values.LongArray(key, nodeId))
	default:
		return utils.V(values.DoubleArray(key, nodeId))
	}
}

// PrintTopN logs the vertices with the largest values.
func PrintTopN(g *graph.Graph, values []float64, size int) {
	top := utils.FindTopN(values, size)
	log.Info().Msg("Top " + utils.V(len(top)) + ": pos, rawId, value")
	for i, entry := range top {
		log.Info().Msg(utils.F("%4d,", i) + utils.F("%10d,", g.ToOriginalId(entry.First)) + utils.F("%12.6f", entry.Second))
	}
}

// OracleCompare logs how far the given values are from the values of a run to full convergence.
func OracleCompare(name string, oracle []float64, given []float64) {
	avgL1Diff, medianL1Diff, percentile95L1 := utils.ResultCompare(oracle, given)
	maxL1Diff, at := utils.MaxDiff(oracle, given)
	log.Info().Msg(name + " oracle comparison: AvgL1Diff " + utils.F("%.3e", avgL1Diff) + " MedianL1Diff " + utils.F("%.3e", medianL1Diff) +
		" 95pL1Diff " + utils.F("%.3e", percentile95L1) + " MaxL1Diff " + utils.F("%.3e", maxL1Diff) + " at " + utils.V(at))
}
