package pregel

import (
	"math"
)

// Reducer combines the messages sent to one vertex into a single message.
// Reduce must be associative and commutative, with Identity as its neutral element.
type Reducer interface {
	Identity() float64
	Reduce(current, message float64) float64
}

type SumReducer struct{}

func (SumReducer) Identity() float64                       { return 0 }
func (SumReducer) Reduce(current, message float64) float64 { return current + message }

type MinReducer struct{}

func (MinReducer) Identity() float64                       { return math.Inf(1) }
func (MinReducer) Reduce(current, message float64) float64 { return math.Min(current, message) }

type MaxReducer struct{}

func (MaxReducer) Identity() float64                       { return math.Inf(-1) }
func (MaxReducer) Reduce(current, message float64) float64 { return math.Max(current, message) }

// CountReducer delivers the number of messages sent, ignoring their values.
type CountReducer struct{}

func (CountReducer) Identity() float64                 { return 0 }
func (CountReducer) Reduce(current, _ float64) float64 { return current + 1 }
