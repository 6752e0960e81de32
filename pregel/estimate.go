package pregel

import (
	"github.com/ScottSallinen/lollipop-bsp/utils"
)

const (
	SLICE_HEADER_BYTES     = 24
	ESTIMATED_ARRAY_LENGTH = 10  // Elements assumed per array value for the upper bound.
	WORKER_BYTES           = 512 // Contexts, iterator and closures of one worker.
	queueGrowthSlack       = 2   // Appending doubles buffers, so up to half may be unused.
)

type MemoryRange struct {
	Min int64
	Max int64
}

func fixedRange(n int64) MemoryRange {
	return MemoryRange{n, n}
}

func (r MemoryRange) Add(other MemoryRange) MemoryRange {
	return MemoryRange{r.Min + other.Min, r.Max + other.Max}
}

func (r MemoryRange) Times(n int64) MemoryRange {
	return MemoryRange{r.Min * n, r.Max * n}
}

func (r MemoryRange) String() string {
	if r.Min == r.Max {
		return utils.Bytes(r.Min)
	}
	return "[" + utils.Bytes(r.Min) + " ... " + utils.Bytes(r.Max) + "]"
}

type EstimationInput struct {
	Schema               *Schema
	NodeCount            int
	RelationshipCount    int
	Concurrency          int
	Asynchronous         bool
	Reducer              bool
	TrackSender          bool
	InitialQueueCapacity int
}

// EstimateMemory returns the bytes a run is expected to hold, from its node values, vote bits, messenger and workers.
// Arrays count as empty for the lower bound. Queues count their initial capacity on every vertex for the lower bound,
// and one message per relationship (with growth slack) for the upper bound.
func EstimateMemory(in EstimationInput) MemoryRange {
	n := int64(in.NodeCount)
	total := estimateNodeValues(in.Schema, n)
	total = total.Add(fixedRange(bitmapBytes(n)))
	if in.Reducer {
		total = total.Add(estimateReducedSlots(in, n))
	} else {
		total = total.Add(estimateQueues(in, n))
	}
	return total.Add(fixedRange(int64(in.Concurrency) * WORKER_BYTES))
}

func bitmapBytes(n int64) int64 {
	return utils.CeilDiv(n, 64) * 8
}

func estimateNodeValues(schema *Schema, n int64) (total MemoryRange) {
	if schema == nil {
		return total
	}
	for _, e := range schema.Elements() {
		switch e.Type {
		case LONG, DOUBLE:
			total = total.Add(fixedRange(8 * n))
		case LONG_ARRAY, DOUBLE_ARRAY:
			headers := SLICE_HEADER_BYTES * n
			total = total.Add(MemoryRange{headers, headers + 8*ESTIMATED_ARRAY_LENGTH*n})
		}
	}
	return total
}

func estimateReducedSlots(in EstimationInput, n int64) MemoryRange {
	perSet := 8*n + bitmapBytes(n)
	if in.TrackSender {
		perSet += 4 * n
	}
	if in.TrackSender || in.Asynchronous {
		perSet += 4 * n
	}
	return fixedRange(perSet).Times(messengerSets(in))
}

func estimateQueues(in EstimationInput, n int64) MemoryRange {
	entryBytes := int64(8)
	perVertex := int64(4 + 4 + SLICE_HEADER_BYTES)
	if in.TrackSender {
		entryBytes += 4
		perVertex += SLICE_HEADER_BYTES
	}
	fixed := perVertex * n
	lower := fixed + n*int64(utils.Max(in.InitialQueueCapacity, 1))*entryBytes
	upper := fixed + int64(in.RelationshipCount)*entryBytes*queueGrowthSlack
	return MemoryRange{lower, utils.Max(lower, upper)}.Times(messengerSets(in))
}

// Synchronous messengers double buffer.
func messengerSets(in EstimationInput) int64 {
	if in.Asynchronous {
		return 1
	}
	return 2
}
