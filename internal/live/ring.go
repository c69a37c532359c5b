package live

import "hems-sim/internal/synth"

// RingBuffer is a fixed-capacity FIFO of readings that overwrites the oldest
// entry once full.
// Not safe for concurrent use; Feed guards it.
type RingBuffer struct {
	buf      []synth.Point
	capacity int
	head     int // next write position
	count    int
}

// NewRingBuffer panics on a non-positive capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		panic("live: ring buffer capacity must be > 0")
	}
	return &RingBuffer{
		buf:      make([]synth.Point, capacity),
		capacity: capacity,
	}
}

// Push appends p and reports whether an older reading was overwritten.
func (r *RingBuffer) Push(p synth.Point) (overwrote bool) {
	r.buf[r.head] = p
	r.head = (r.head + 1) % r.capacity
	if r.count == r.capacity {
		return true
	}
	r.count++
	return false
}

// Snapshot copies the buffered readings oldest first without draining them.
func (r *RingBuffer) Snapshot() []synth.Point {
	out := make([]synth.Point, r.count)
	// Oldest item is at (head - count) mod capacity
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(start+i)%r.capacity]
	}
	return out
}

func (r *RingBuffer) Len() int { return r.count }

func (r *RingBuffer) Cap() int { return r.capacity }
