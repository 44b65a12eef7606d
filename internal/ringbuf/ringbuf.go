// Package ringbuf provides a lock-free single-producer single-consumer ring
// buffer carrying live kline updates from the stream reader to the analyzer
// loop. Atomic head/tail indices with cache-line padding keep the hot path
// free of locks.
package ringbuf

import (
	"sync/atomic"

	"trading-analyzer/internal/model"
)

// cacheLine is the typical x86-64 cache line size used for padding.
const cacheLine = 64

// Update is one streamed bar revision. Closed marks the final revision of
// the bar; open bars are replaced in the window rather than appended.
type Update struct {
	Symbol string
	Candle model.Candle
	Closed bool
}

// Ring is a lock-free SPSC buffer of Updates. Capacity is a power of two
// for bitwise modulo.
type Ring struct {
	buf  []Update
	mask uint64

	// Separate cache lines so producer and consumer indices never share one.
	_pad0 [cacheLine]byte
	head  atomic.Uint64 // written by producer
	_pad1 [cacheLine]byte
	tail  atomic.Uint64 // written by consumer
	_pad2 [cacheLine]byte

	dropped atomic.Uint64
}

// New creates a ring buffer; capacity is rounded up to the next power of
// two, minimum 2.
func New(capacity int) *Ring {
	size := nextPow2(capacity)
	if size < 2 {
		size = 2
	}
	return &Ring{
		buf:  make([]Update, size),
		mask: uint64(size - 1),
	}
}

// Push appends an update without blocking. Returns false and counts a drop
// when the buffer is full.
func (r *Ring) Push(u Update) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail >= uint64(len(r.buf)) {
		r.dropped.Add(1)
		return false
	}
	r.buf[head&r.mask] = u
	r.head.Store(head + 1)
	return true
}

// Pop retrieves the next update without blocking. Returns false when empty.
func (r *Ring) Pop() (Update, bool) {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail >= head {
		return Update{}, false
	}
	u := r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return u, true
}

// Len returns the current number of buffered updates.
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Cap returns the buffer capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Dropped returns the total number of pushes rejected on a full buffer.
func (r *Ring) Dropped() uint64 {
	return r.dropped.Load()
}

// nextPow2 returns the smallest power of 2 >= n.
func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
