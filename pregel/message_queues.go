package pregel

import (
	"sync/atomic"

	"github.com/ScottSallinen/lollipop-bsp/utils"
)

type queueOptions struct {
	initialCapacity     int
	maxSize             int
	compactionThreshold float64
	trackSender         bool
}

// messageQueues holds one growable queue per vertex, stored column-wise.
// A queue is the live window [heads[v], len(values[v])) of its buffer. Every access to a queue holds its spin flag.
type messageQueues struct {
	locks   []uint32
	heads   []int32
	values  [][]float64
	senders [][]uint32 // nil unless senders are tracked.
	opts    queueOptions

	overflow *atomic.Pointer[QueueCapacityError]
}

func newMessageQueues(nodeCount int, opts queueOptions, overflow *atomic.Pointer[QueueCapacityError]) *messageQueues {
	q := &messageQueues{
		locks:    make([]uint32, nodeCount),
		heads:    make([]int32, nodeCount),
		values:   make([][]float64, nodeCount),
		opts:     opts,
		overflow: overflow,
	}
	if opts.trackSender {
		q.senders = make([][]uint32, nodeCount)
	}
	return q
}

func (q *messageQueues) shouldCompact(head, capacity int) bool {
	return head > 0 && float64(head) >= q.opts.compactionThreshold*float64(capacity)
}

func (q *messageQueues) push(target, sender uint32, message float64) {
	utils.SpinLock(&q.locks[target])
	buf := q.values[target]
	head := int(q.heads[target])
	if len(buf) == cap(buf) && q.shouldCompact(head, cap(buf)) {
		q.compact(target)
		buf, head = q.values[target], 0
	}
	if size := len(buf) - head; q.opts.maxSize > 0 && size >= q.opts.maxSize {
		utils.SpinUnlock(&q.locks[target])
		q.overflow.CompareAndSwap(nil, &QueueCapacityError{NodeId: target, Size: size})
		return
	}
	if buf == nil {
		buf = make([]float64, 0, utils.Max(q.opts.initialCapacity, 1))
	}
	q.values[target] = append(buf, message)
	if q.senders != nil {
		senders := q.senders[target]
		if senders == nil {
			senders = make([]uint32, 0, cap(q.values[target]))
		}
		q.senders[target] = append(senders, sender)
	}
	utils.SpinUnlock(&q.locks[target])
}

func (q *messageQueues) pop(nodeId uint32) (message float64, sender uint32, ok bool) {
	utils.SpinLock(&q.locks[nodeId])
	buf := q.values[nodeId]
	head := int(q.heads[nodeId])
	if head < len(buf) {
		message, ok = buf[head], true
		if q.senders != nil {
			sender = q.senders[nodeId][head]
		}
		if head+1 == len(buf) {
			q.clear(nodeId)
		} else {
			q.heads[nodeId] = int32(head + 1)
		}
	}
	utils.SpinUnlock(&q.locks[nodeId])
	return message, sender, ok
}

func (q *messageQueues) isEmpty(nodeId uint32) bool {
	utils.SpinLock(&q.locks[nodeId])
	empty := int(q.heads[nodeId]) >= len(q.values[nodeId])
	utils.SpinUnlock(&q.locks[nodeId])
	return empty
}

func (q *messageQueues) size(nodeId uint32) int {
	utils.SpinLock(&q.locks[nodeId])
	size := len(q.values[nodeId]) - int(q.heads[nodeId])
	utils.SpinUnlock(&q.locks[nodeId])
	return size
}

// Drops the messages of nodeId, keeping the buffer. Caller holds the lock or has exclusive access.
func (q *messageQueues) clear(nodeId uint32) {
	q.heads[nodeId] = 0
	q.values[nodeId] = q.values[nodeId][:0]
	if q.senders != nil {
		q.senders[nodeId] = q.senders[nodeId][:0]
	}
}

// Shifts the live window to the front of the buffer. Caller holds the lock or has exclusive access.
func (q *messageQueues) compact(nodeId uint32) {
	head := int(q.heads[nodeId])
	if head == 0 {
		return
	}
	buf := q.values[nodeId]
	n := copy(buf, buf[head:])
	q.values[nodeId] = buf[:n]
	if q.senders != nil {
		senders := q.senders[nodeId]
		copy(senders, senders[head:])
		q.senders[nodeId] = senders[:n]
	}
	q.heads[nodeId] = 0
}

// Compacts every queue past the threshold. Not safe with concurrent pushes.
func (q *messageQueues) compactAll() (compacted int) {
	for nodeId := range q.values {
		if q.shouldCompact(int(q.heads[nodeId]), cap(q.values[nodeId])) {
			q.compact(uint32(nodeId))
			compacted++
		}
	}
	return compacted
}

// Not safe with concurrent pushes.
func (q *messageQueues) hasMessages() bool {
	for nodeId := range q.values {
		if int(q.heads[nodeId]) < len(q.values[nodeId]) {
			return true
		}
	}
	return false
}

func (q *messageQueues) release() {
	q.locks, q.heads, q.values, q.senders = nil, nil, nil, nil
}
