package pregel

import (
	"sync/atomic"
)

// SyncQueueMessenger double buffers the queues: messages pushed in superstep k are read in superstep k+1.
// Vertices drain their read queue while computing, so swapping the sets at the barrier is all it takes.
type SyncQueueMessenger struct {
	read        *messageQueues
	write       *messageQueues
	trackSender bool
	overflow    atomic.Pointer[QueueCapacityError]
}

func NewSyncQueueMessenger(nodeCount int, opts queueOptions) *SyncQueueMessenger {
	m := &SyncQueueMessenger{trackSender: opts.trackSender}
	m.read = newMessageQueues(nodeCount, opts, &m.overflow)
	m.write = newMessageQueues(nodeCount, opts, &m.overflow)
	return m
}

func (m *SyncQueueMessenger) InitIteration(superstep int) {
	if superstep > 0 {
		m.read, m.write = m.write, m.read
	}
}

func (m *SyncQueueMessenger) Push(source, target uint32, message float64) {
	m.write.push(target, source, message)
}

func (m *SyncQueueMessenger) IsEmpty(nodeId uint32) bool {
	return m.read.isEmpty(nodeId)
}

func (m *SyncQueueMessenger) InitMessages(messages *Messages, nodeId uint32) {
	messages.init(m.read, nodeId, m.trackSender)
}

// Unread messages are dropped, leaving the queue empty for its turn as a write queue.
func (m *SyncQueueMessenger) FinishMessages(messages *Messages) {
	m.read.clear(messages.nodeId)
}

func (m *SyncQueueMessenger) HasMessages() bool {
	return m.write.hasMessages()
}

func (m *SyncQueueMessenger) Err() error {
	if err := m.overflow.Load(); err != nil {
		return err
	}
	return nil
}

func (m *SyncQueueMessenger) Release() {
	m.read.release()
	m.write.release()
}
