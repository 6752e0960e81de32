package pregel

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

// AsyncQueueMessenger keeps a single queue per vertex. A message is readable as soon as it is pushed, so a vertex
// computed later in the same superstep may see it. Messages a vertex does not read stay queued.
type AsyncQueueMessenger struct {
	queues      *messageQueues
	trackSender bool
	overflow    atomic.Pointer[QueueCapacityError]
}

func NewAsyncQueueMessenger(nodeCount int, opts queueOptions) *AsyncQueueMessenger {
	if opts.compactionThreshold <= 0 {
		opts.compactionThreshold = DEFAULT_COMPACTION_THRESHOLD
	}
	m := &AsyncQueueMessenger{trackSender: opts.trackSender}
	m.queues = newMessageQueues(nodeCount, opts, &m.overflow)
	return m
}

func (m *AsyncQueueMessenger) InitIteration(superstep int) {
	if superstep > 0 {
		compacted := m.queues.compactAll()
		log.Trace().Msg("Superstep " + utils.V(superstep) + " compacted " + utils.V(compacted) + " queues")
	}
}

func (m *AsyncQueueMessenger) Push(source, target uint32, message float64) {
	m.queues.push(target, source, message)
}

func (m *AsyncQueueMessenger) IsEmpty(nodeId uint32) bool {
	return m.queues.isEmpty(nodeId)
}

func (m *AsyncQueueMessenger) InitMessages(messages *Messages, nodeId uint32) {
	messages.init(m.queues, nodeId, m.trackSender)
}

func (m *AsyncQueueMessenger) FinishMessages(*Messages) {}

func (m *AsyncQueueMessenger) HasMessages() bool {
	return m.queues.hasMessages()
}

func (m *AsyncQueueMessenger) Err() error {
	if err := m.overflow.Load(); err != nil {
		return err
	}
	return nil
}

func (m *AsyncQueueMessenger) Release() {
	m.queues.release()
}
