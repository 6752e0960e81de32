package graph

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

// Lines handed to a parser thread at a time.
const LOAD_CHUNK_LINES = 4096

type edgeLine struct {
	num    int
	fields []string
}

type lineChunk struct {
	index int
	lines []edgeLine
}

type parsedChunk struct {
	index int
	edges []RawEdge
}

// LoadEdgeList reads the edge list at options.Name.
// A single reader scans the file and fans chunks of lines out to options.LoadThreads parser threads; edges are then
// added in file order, so internal ids do not depend on the thread count.
func LoadEdgeList(options Options) (*Graph, error) {
	threads := utils.Max(options.LoadThreads, 1)
	watch := utils.Watch{}
	watch.Start()

	file, err := os.Open(options.Name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunks := make(chan lineChunk, threads)
	parsed := make([][]parsedChunk, threads)
	g, ctx := errgroup.WithContext(context.Background())
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			for chunk := range chunks {
				edges := make([]RawEdge, len(chunk.lines))
				for i, line := range chunk.lines {
					edge, err := parseEdge(line.fields, options.WeightPos)
					if err != nil {
						return fmt.Errorf("%s line %d: %w", options.Name, line.num, err)
					}
					edges[i] = edge
				}
				parsed[t] = append(parsed[t], parsedChunk{chunk.index, edges})
			}
			return nil
		})
	}
	chunkCount := 0
	g.Go(func() error {
		defer close(chunks)
		chunk := lineChunk{lines: make([]edgeLine, 0, LOAD_CHUNK_LINES)}
		send := func() error {
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return ctx.Err()
			}
			chunkCount++
			chunk = lineChunk{index: chunkCount, lines: make([]edgeLine, 0, LOAD_CHUNK_LINES)}
			return nil
		}
		err := utils.ForEachLine(file, func(lineNum int, fields []string) error {
			chunk.lines = append(chunk.lines, edgeLine{lineNum, fields})
			if len(chunk.lines) == LOAD_CHUNK_LINES {
				return send()
			}
			return nil
		})
		if err == nil && len(chunk.lines) > 0 {
			err = send()
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ordered := make([][]RawEdge, chunkCount)
	total := 0
	for _, chunks := range parsed {
		for _, c := range chunks {
			ordered[c.index] = c.edges
			total += len(c.edges)
		}
	}

	b := NewBuilder(options)
	for _, edges := range ordered {
		for _, e := range edges {
			b.AddEdge(e.SrcRaw, e.DstRaw, e.Weight)
		}
	}
	graph := b.Build()
	log.Info().Msg("Loaded " + options.Name + " with " + utils.V(total) + " edges in " + utils.V(watch.Elapsed().Milliseconds()) + "ms")
	return graph, nil
}

func parseEdge(fields []string, weightPos int) (edge RawEdge, err error) {
	if len(fields) < 2 {
		return edge, fmt.Errorf("expected [src dst], got %d fields", len(fields))
	}
	if edge.SrcRaw, err = strconv.ParseUint(fields[0], 10, 64); err != nil {
		return edge, err
	}
	if edge.DstRaw, err = strconv.ParseUint(fields[1], 10, 64); err != nil {
		return edge, err
	}
	edge.Weight = 1.0
	if weightPos > 0 {
		if len(fields) < 2+weightPos {
			return edge, fmt.Errorf("no weight at position %d", weightPos)
		}
		if edge.Weight, err = strconv.ParseFloat(fields[1+weightPos], 64); err != nil {
			return edge, err
		}
	}
	return edge, nil
}

// Edges returns the relationships by original id, grouped by source in internal id order.
// Weights are 1.0 when the graph has none.
func (g *Graph) Edges() []RawEdge {
	edges := make([]RawEdge, 0, g.RelationshipCount())
	for v := uint32(0); v < uint32(g.NodeCount()); v++ {
		g.ForEachRelationship(v, 1.0, func(source, target uint32, weight float64) bool {
			edges = append(edges, RawEdge{g.ToOriginalId(source), g.ToOriginalId(target), weight})
			return true
		})
	}
	return edges
}

// WriteEdgeList writes one "src dst" line per edge, followed by the weight when weighted.
func WriteEdgeList(w io.Writer, edges []RawEdge, weighted bool) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for _, e := range edges {
		buf = strconv.AppendUint(buf[:0], e.SrcRaw, 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, e.DstRaw, 10)
		if weighted {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, e.Weight, 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
