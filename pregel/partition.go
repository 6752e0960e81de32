package pregel

import (
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

// Partition boundaries are multiples of this, so that no 64 bit word of a per-vertex bitmap is shared by two workers.
const PARTITION_ALIGNMENT = 64

// Partition is a contiguous range of node ids owned by one worker for the whole run.
type Partition struct {
	StartNode uint32
	NodeCount int
	Worker    int
}

func (p Partition) EndNode() uint32 {
	return p.StartNode + uint32(p.NodeCount)
}

func (p Partition) ForEachNode(fn func(nodeId uint32)) {
	for nodeId, end := p.StartNode, p.EndNode(); nodeId < end; nodeId++ {
		fn(nodeId)
	}
}

func checkPartitionArgs(nodeCount, concurrency int) {
	if concurrency <= 0 {
		log.Panic().Msg("Cannot partition with concurrency " + utils.V(concurrency))
	}
	if nodeCount < 0 {
		log.Panic().Msg("Cannot partition a negative node count " + utils.V(nodeCount))
	}
}

// RangePartition splits [0, nodeCount) into at most concurrency ranges of near equal size.
// Small graphs produce fewer partitions than workers; an empty graph produces none.
func RangePartition(nodeCount, concurrency int) []Partition {
	checkPartitionArgs(nodeCount, concurrency)
	batchSize := utils.AlignUp(utils.Max(utils.CeilDiv(nodeCount, concurrency), 1), PARTITION_ALIGNMENT)

	partitions := make([]Partition, 0, utils.Min(concurrency, utils.CeilDiv(nodeCount, batchSize)))
	for start := 0; start < nodeCount; start += batchSize {
		partitions = append(partitions, Partition{
			StartNode: uint32(start),
			NodeCount: utils.Min(batchSize, nodeCount-start),
			Worker:    len(partitions),
		})
	}
	return partitions
}

// DegreePartition splits [0, nodeCount) into contiguous ranges with a similar sum of degrees each.
// A vertex counts as at least one unit of work, so runs of isolated vertices are spread too.
func DegreePartition(nodeCount, concurrency int, degree func(nodeId uint32) int) []Partition {
	checkPartitionArgs(nodeCount, concurrency)
	totalDegree := 0
	for nodeId := 0; nodeId < nodeCount; nodeId++ {
		totalDegree += degree(uint32(nodeId))
	}
	if totalDegree == 0 {
		return RangePartition(nodeCount, concurrency)
	}

	target := utils.CeilDiv(totalDegree+nodeCount, concurrency)
	partitions := make([]Partition, 0, concurrency)
	start, work := 0, 0
	for nodeId := 0; nodeId < nodeCount; nodeId++ {
		work += degree(uint32(nodeId)) + 1
		end := nodeId + 1
		if work >= target && end%PARTITION_ALIGNMENT == 0 && len(partitions) < concurrency-1 {
			partitions = append(partitions, Partition{StartNode: uint32(start), NodeCount: end - start, Worker: len(partitions)})
			start, work = end, 0
		}
	}
	if start < nodeCount {
		partitions = append(partitions, Partition{StartNode: uint32(start), NodeCount: nodeCount - start, Worker: len(partitions)})
	}
	return partitions
}

// Partitions the graph following the configured strategy.
func partitionGraph(graph Graph, config *Config) []Partition {
	strategy := config.Partitioning
	if strategy == AUTO {
		strategy = RANGE
		if graph.RelationshipCount() > 0 {
			strategy = DEGREE
		}
	}
	if strategy == DEGREE {
		return DegreePartition(graph.NodeCount(), config.Concurrency, graph.Degree)
	}
	return RangePartition(graph.NodeCount(), config.Concurrency)
}
