package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AlignUp(t *testing.T) {
	assert.Equal(t, 0, AlignUp(0, 64))
	assert.Equal(t, 64, AlignUp(1, 64))
	assert.Equal(t, 64, AlignUp(64, 64))
	assert.Equal(t, 128, AlignUp(65, 64))
	assert.Equal(t, 3, CeilDiv(7, 3))
}

func Test_FindTopN(t *testing.T) {
	values := []float64{0.5, 3, 1, 3, 9, -1}
	top := FindTopN(values, 3)
	assert.Equal(t, []Pair[uint32, float64]{{4, 9}, {1, 3}, {3, 3}}, top)

	assert.Len(t, FindTopN(values, 100), len(values))
	assert.Nil(t, FindTopN([]float64{}, 3))
}

func Test_MaxDiff(t *testing.T) {
	inf := math.Inf(1)
	d, at := MaxDiff([]float64{1, inf, 3}, []float64{1, inf, 3.5})
	assert.Equal(t, 0.5, d)
	assert.Equal(t, 2, at)

	_, at = MaxDiff([]int{1, 2}, []int{1, 2})
	assert.Equal(t, -1, at)
}

func Test_Percentile(t *testing.T) {
	assert.Equal(t, 3, Median([]int{5, 1, 3}))
	assert.Equal(t, 5, Percentile([]int{5, 1, 3}, 100))
	assert.Equal(t, 1, Percentile([]int{5, 1, 3}, 0))
}

func Test_AtomicReduceFloat64(t *testing.T) {
	var bits uint64 = math.Float64bits(math.Inf(1))
	AtomicReduceFloat64(&bits, 4, math.Min)
	AtomicReduceFloat64(&bits, 7, math.Min)
	old, now := AtomicReduceFloat64(&bits, 2, math.Min)
	assert.Equal(t, 4.0, old)
	assert.Equal(t, 2.0, now)
	assert.Equal(t, 2.0, math.Float64frombits(bits))
}

func Test_ResultCompare(t *testing.T) {
	avg, median, p95 := ResultCompare([]float64{1, 2, 3, 4}, []float64{1, 2.5, 3, 6})
	assert.Equal(t, 0.625, avg)
	assert.Equal(t, 0.5, median)
	assert.Equal(t, 2.0, p95)

	avg, _, _ = ResultCompare([]float64{math.Inf(1)}, []float64{math.Inf(1)})
	assert.Zero(t, avg)
}
