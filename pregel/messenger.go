package pregel

import (
	"iter"
)

// Messenger delivers messages between vertices. There are three implementations, chosen once at construction:
// synchronous queues, asynchronous queues, and reducing slots (either mode).
//
// Push, IsEmpty and the message iteration run concurrently on the workers; a vertex's messages are only read by the
// worker computing it. InitIteration, HasMessages and Err run single threaded between supersteps.
type Messenger interface {
	// InitIteration prepares delivery for the given superstep: swaps (sync) or compacts (async) the queues.
	InitIteration(superstep int)
	Push(source, target uint32, message float64)
	IsEmpty(nodeId uint32) bool
	// InitMessages points the iterator at the messages of nodeId.
	InitMessages(messages *Messages, nodeId uint32)
	// FinishMessages is called once the computation of the iterator's vertex returned.
	FinishMessages(messages *Messages)
	// HasMessages reports whether any vertex would see a message in the next superstep.
	HasMessages() bool
	// Err returns the first capacity error since construction.
	Err() error
	Release()
}

// messageSource is the per-vertex read side of a messenger.
type messageSource interface {
	pop(nodeId uint32) (message float64, sender uint32, ok bool)
}

// Messages is a lazy, single pass iterator over the messages sent to one vertex.
type Messages struct {
	source      messageSource
	nodeId      uint32
	exhausted   bool
	trackSender bool
	sender      uint32
	taken       int
}

func (m *Messages) init(source messageSource, nodeId uint32, trackSender bool) {
	m.source = source
	m.nodeId = nodeId
	m.exhausted = source == nil
	m.trackSender = trackSender
	m.sender = 0
	m.taken = 0
}

// Next returns the next message, or false once the messages are exhausted.
func (m *Messages) Next() (float64, bool) {
	if m.exhausted {
		return 0, false
	}
	message, sender, ok := m.source.pop(m.nodeId)
	if !ok {
		m.exhausted = true
		return 0, false
	}
	m.sender = sender
	m.taken++
	return message, true
}

// Sender returns the sender of the message last returned by Next, if senders are tracked.
func (m *Messages) Sender() (uint32, bool) {
	if !m.trackSender || m.taken == 0 {
		return 0, false
	}
	return m.sender, true
}

// IsEmpty reports whether Next would return no message.
func (m *Messages) IsEmpty() bool {
	if m.exhausted {
		return true
	}
	if e, ok := m.source.(interface{ isEmpty(uint32) bool }); ok && e.isEmpty(m.nodeId) {
		m.exhausted = true
	}
	return m.exhausted
}

// All returns the remaining messages as a sequence. Iterating it consumes them.
func (m *Messages) All() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for {
			message, ok := m.Next()
			if !ok || !yield(message) {
				return
			}
		}
	}
}

// Sum consumes the remaining messages and returns their sum.
func (m *Messages) Sum() (sum float64) {
	for message, ok := m.Next(); ok; message, ok = m.Next() {
		sum += message
	}
	return sum
}

func newMessenger(nodeCount int, config *Config, reducer Reducer) Messenger {
	if reducer != nil {
		return NewReducingMessenger(nodeCount, reducer, config.Asynchronous, config.TrackSender)
	}
	opts := queueOptions{
		initialCapacity:     config.InitialQueueCapacity,
		maxSize:             config.MaxQueueSize,
		compactionThreshold: config.CompactionThreshold,
		trackSender:         config.TrackSender,
	}
	if config.Asynchronous {
		return NewAsyncQueueMessenger(nodeCount, opts)
	}
	return NewSyncQueueMessenger(nodeCount, opts)
}
