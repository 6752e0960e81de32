package pregel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func estimationInput() EstimationInput {
	return EstimationInput{
		Schema:               NewSchema().Add("value", DOUBLE).Add("path", LONG_ARRAY),
		NodeCount:            10000,
		RelationshipCount:    50000,
		Concurrency:          4,
		InitialQueueCapacity: DEFAULT_QUEUE_CAPACITY,
	}
}

func Test_EstimateMemory(t *testing.T) {
	sync := EstimateMemory(estimationInput())
	assert.Positive(t, sync.Min)
	assert.GreaterOrEqual(t, sync.Max, sync.Min)

	in := estimationInput()
	in.Asynchronous = true
	async := EstimateMemory(in)
	assert.Less(t, async.Min, sync.Min)
	assert.Less(t, async.Max, sync.Max)

	in = estimationInput()
	in.Reducer = true
	reduced := EstimateMemory(in)
	assert.Less(t, reduced.Max, sync.Max)

	in.TrackSender = true
	assert.Greater(t, EstimateMemory(in).Min, reduced.Min)

	in = estimationInput()
	in.Concurrency = 64
	assert.Equal(t, int64(60*WORKER_BYTES), EstimateMemory(in).Min-sync.Min)
}

func Test_EstimateNodeValues(t *testing.T) {
	schema := NewSchema().Add("a", LONG).Add("b", DOUBLE)
	assert.Equal(t, fixedRange(16*100), estimateNodeValues(schema, 100))
	assert.Equal(t, MemoryRange{}, estimateNodeValues(nil, 100))

	arrays := estimateNodeValues(NewSchema().Add("c", DOUBLE_ARRAY), 100)
	assert.Equal(t, int64(SLICE_HEADER_BYTES*100), arrays.Min)
	assert.Equal(t, int64(SLICE_HEADER_BYTES*100+8*ESTIMATED_ARRAY_LENGTH*100), arrays.Max)
}

func Test_MemoryRangeString(t *testing.T) {
	assert.Equal(t, "1.0 KiB", fixedRange(1024).String())
	assert.Equal(t, "[1.0 KiB ... 2.0 MiB]", MemoryRange{1024, 2 << 20}.String())
	assert.Equal(t, MemoryRange{3, 6}, MemoryRange{1, 2}.Add(MemoryRange{2, 4}))
	assert.Equal(t, MemoryRange{2, 4}, MemoryRange{1, 2}.Times(2))
}
