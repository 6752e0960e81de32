package pregel

import (
	"math"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

// reducedSlots holds one reduced message per vertex.
// Without locks, pushes combine with a CAS on the value bits; the slots are then only read once no one pushes.
// With locks, every access holds the slot's spin flag so that value, sender and presence change together.
type reducedSlots struct {
	reducer  Reducer
	identity uint64
	values   []uint64 // float64 bits.
	senders  []uint32 // nil unless senders are tracked.
	present  utils.AtomicBitmap
	locks    []uint32 // nil when combining lock free.
}

func newReducedSlots(nodeCount int, reducer Reducer, locked, trackSender bool) *reducedSlots {
	s := &reducedSlots{
		reducer:  reducer,
		identity: math.Float64bits(reducer.Identity()),
		values:   make([]uint64, nodeCount),
		present:  utils.NewAtomicBitmap(nodeCount),
	}
	for i := range s.values {
		s.values[i] = s.identity
	}
	if trackSender {
		s.senders = make([]uint32, nodeCount)
	}
	if locked || trackSender {
		s.locks = make([]uint32, nodeCount)
	}
	return s
}

func (s *reducedSlots) push(target, sender uint32, message float64) {
	if s.locks == nil {
		utils.AtomicReduceFloat64(&s.values[target], message, s.reducer.Reduce)
		s.present.Set(target)
		return
	}
	s.pushLocked(target, sender, message)
}

// The flag is released even when Reduce panics, so other workers pushing to target do not spin forever.
func (s *reducedSlots) pushLocked(target, sender uint32, message float64) {
	utils.SpinLock(&s.locks[target])
	defer utils.SpinUnlock(&s.locks[target])
	reduced := s.reducer.Reduce(math.Float64frombits(s.values[target]), message)
	s.values[target] = math.Float64bits(reduced)
	// The sender of the value that won; on ties the last one pushed.
	if s.senders != nil && (reduced == message || !s.present.Get(target)) {
		s.senders[target] = sender
	}
	s.present.Set(target)
}

// Takes the reduced message, leaving the slot empty.
func (s *reducedSlots) pop(nodeId uint32) (message float64, sender uint32, ok bool) {
	if s.locks != nil {
		utils.SpinLock(&s.locks[nodeId])
	}
	if s.present.Get(nodeId) {
		message, ok = math.Float64frombits(s.values[nodeId]), true
		if s.senders != nil {
			sender = s.senders[nodeId]
		}
		s.values[nodeId] = s.identity
		s.present.Clear(nodeId)
	}
	if s.locks != nil {
		utils.SpinUnlock(&s.locks[nodeId])
	}
	return message, sender, ok
}

func (s *reducedSlots) isEmpty(nodeId uint32) bool {
	return !s.present.Get(nodeId)
}

func (s *reducedSlots) release() {
	s.values, s.senders, s.present, s.locks = nil, nil, nil, nil
}

// ReducingMessenger combines messages on push, so each vertex receives at most one message per superstep.
// Synchronous mode double buffers the slots; asynchronous mode reads and writes the same slots.
type ReducingMessenger struct {
	read        *reducedSlots
	write       *reducedSlots
	async       bool
	trackSender bool
}

func NewReducingMessenger(nodeCount int, reducer Reducer, async, trackSender bool) *ReducingMessenger {
	m := &ReducingMessenger{async: async, trackSender: trackSender}
	m.write = newReducedSlots(nodeCount, reducer, async, trackSender)
	m.read = m.write
	if !async {
		m.read = newReducedSlots(nodeCount, reducer, false, trackSender)
	}
	return m
}

func (m *ReducingMessenger) InitIteration(superstep int) {
	if superstep > 0 && !m.async {
		m.read, m.write = m.write, m.read
	}
}

func (m *ReducingMessenger) Push(source, target uint32, message float64) {
	m.write.push(target, source, message)
}

func (m *ReducingMessenger) IsEmpty(nodeId uint32) bool {
	return m.read.isEmpty(nodeId)
}

func (m *ReducingMessenger) InitMessages(messages *Messages, nodeId uint32) {
	messages.init(m.read, nodeId, m.trackSender)
}

func (m *ReducingMessenger) FinishMessages(messages *Messages) {
	if !m.async && !messages.exhausted {
		m.read.pop(messages.nodeId)
	}
}

func (m *ReducingMessenger) HasMessages() bool {
	return m.write.present.Any()
}

func (m *ReducingMessenger) Err() error {
	return nil
}

func (m *ReducingMessenger) Release() {
	m.read.release()
	if m.async {
		return
	}
	m.write.release()
}
