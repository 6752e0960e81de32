package utils

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/constraints"
)

type Pair[F any, S any] struct {
	First  F
	Second S
}

// An imprecise float approximate comparison. "optional" variance with ... args strategy
func FloatEquals(a float64, b float64, inputVariance ...float64) bool {
	variance := 0.001
	if len(inputVariance) >= 1 {
		variance = inputVariance[0]
	}
	return math.Abs(a-b) < variance
}

// Round up to the next multiple of align (which must be a power of 2).
func AlignUp[T constraints.Integer](i T, align T) T {
	return (i + align - 1) &^ (align - 1)
}

func CeilDiv[T constraints.Integer](a, b T) T {
	return (a + b - 1) / b
}

func Max[T constraints.Ordered](x, y T) T {
	if x < y {
		return y
	}
	return x
}

func Min[T constraints.Ordered](x, y T) T {
	if y < x {
		return y
	}
	return x
}

func MaxSlice[T constraints.Ordered](slice []T) T {
	max := slice[0]
	for i := range slice {
		max = Max(max, slice[i])
	}
	return max
}

func Sum[T constraints.Integer | constraints.Float](slice []T) (sum T) {
	for i := range slice {
		sum += slice[i]
	}
	return sum
}

func Median[T constraints.Integer | constraints.Float](n []T) T {
	return Percentile(n, 50)
}

func Percentile[T constraints.Integer | constraints.Float](n []T, percentile int) T {
	if len(n) == 0 {
		log.Warn().Msg("WARNING: Percentile called on empty slice")
		return 0
	}
	copyN := make([]T, len(n))
	copy(copyN, n)
	sort.Slice(copyN, func(i, j int) bool { return copyN[i] < copyN[j] })
	idx := Min(int(float64(percentile)/100.0*float64(len(copyN))), len(copyN)-1)
	return copyN[idx]
}

func Shuffle[T any](slice []T) {
	for i := range slice {
		j := rand.Intn(i + 1)
		slice[i], slice[j] = slice[j], slice[i]
	}
}

// Compares two arrays, returning the largest absolute difference and the index it occurred at.
// Entries where both sides are +Inf (unreached) compare equal.
func MaxDiff[T constraints.Float | constraints.Integer](a []T, b []T) (maxDiff float64, at int) {
	at = -1
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		if d := math.Abs(float64(b[i] - a[i])); d > maxDiff || math.IsNaN(d) {
			maxDiff, at = d, i
		}
	}
	return maxDiff, at
}

// ResultCompare summarizes the absolute differences between a result and its oracle.
// Entries where both sides are +Inf compare equal.
func ResultCompare[T constraints.Float | constraints.Integer](oracle []T, given []T) (avgL1Diff float64, medianL1Diff float64, percentile95L1 float64) {
	if len(oracle) == 0 {
		return 0, 0, 0
	}
	diffs := make([]float64, len(oracle))
	for i := range oracle {
		if oracle[i] != given[i] {
			diffs[i] = math.Abs(float64(given[i] - oracle[i]))
		}
		avgL1Diff += diffs[i]
	}
	avgL1Diff /= float64(len(oracle))
	return avgL1Diff, Median(diffs), Percentile(diffs, 95)
}
