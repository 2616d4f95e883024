// Package ringbuf implements a lock-free single-producer/single-consumer
// ring buffer of float32 audio samples, plus the small scratch-buffer pools
// the capture and pipeline hot paths reuse to stay allocation-free.
package ringbuf

import "sync/atomic"

// DefaultCapacity is 200ms of mono audio at 48kHz, per the capture burst
// budget the pipeline is sized against.
const DefaultCapacity = 9600

// Ring is a fixed-capacity SPSC circular buffer of float32 samples. The
// zero value is not usable; construct with New. A Ring is safe for exactly
// one producer goroutine and one consumer goroutine to use concurrently
// without additional locking — Producer and Consumer below are the only
// supported access points, and neither requires a mutex.
type Ring struct {
	buf  []float32
	cap  uint64
	head atomic.Uint64 // next read index (monotonic, mod cap for storage), advanced by the consumer
	tail atomic.Uint64 // next write index (monotonic, mod cap for storage), advanced by the producer
}

// New allocates a Ring with the given sample capacity.
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		buf: make([]float32, capacity),
		cap: uint64(capacity),
	}
}

// Producer is the single-writer handle into a Ring.
type Producer struct{ r *Ring }

// Consumer is the single-reader handle into a Ring.
type Consumer struct{ r *Ring }

// Split returns independent producer and consumer handles sharing one Ring.
func (r *Ring) Split() (*Producer, *Consumer) {
	return &Producer{r: r}, &Consumer{r: r}
}

// AvailableSpace reports how many samples can currently be pushed.
func (p *Producer) AvailableSpace() int {
	r := p.r
	return int(r.cap - (r.tail.Load() - r.head.Load()))
}

// AvailableSamples reports how many samples can currently be popped.
func (c *Consumer) AvailableSamples() int {
	r := c.r
	return int(r.tail.Load() - r.head.Load())
}

// IsFull reports whether the ring has no free slots.
func (p *Producer) IsFull() bool {
	return p.AvailableSpace() == 0
}

// IsEmpty reports whether the ring has no available samples.
func (c *Consumer) IsEmpty() bool {
	return c.AvailableSamples() == 0
}

// Push writes one sample. Returns false without blocking if the ring is full.
func (p *Producer) Push(sample float32) bool {
	r := p.r
	tail := r.tail.Load()
	head := r.head.Load()
	if tail-head >= r.cap {
		return false
	}
	r.buf[tail%r.cap] = sample
	r.tail.Store(tail + 1)
	return true
}

// PushSlice writes as many samples as fit and returns the count written.
func (p *Producer) PushSlice(samples []float32) int {
	r := p.r
	tail := r.tail.Load()
	head := r.head.Load()
	space := int(r.cap - (tail - head))
	n := len(samples)
	if n > space {
		n = space
	}
	for i := 0; i < n; i++ {
		r.buf[(tail+uint64(i))%r.cap] = samples[i]
	}
	r.tail.Store(tail + uint64(n))
	return n
}

// TryPushAll writes the entire slice atomically: either every sample lands
// or none do. Returns false (no partial write) when the slice would not fit.
func (p *Producer) TryPushAll(samples []float32) bool {
	r := p.r
	if len(samples) > p.AvailableSpace() {
		return false
	}
	tail := r.tail.Load()
	for i, s := range samples {
		r.buf[(tail+uint64(i))%r.cap] = s
	}
	r.tail.Store(tail + uint64(len(samples)))
	return true
}

// Pop removes and returns the oldest sample, or ok=false if empty.
func (c *Consumer) Pop() (sample float32, ok bool) {
	r := c.r
	head := r.head.Load()
	tail := r.tail.Load()
	if head == tail {
		return 0, false
	}
	sample = r.buf[head%r.cap]
	r.head.Store(head + 1)
	return sample, true
}

// PopSlice drains into dst and returns the count copied.
func (c *Consumer) PopSlice(dst []float32) int {
	r := c.r
	head := r.head.Load()
	tail := r.tail.Load()
	avail := int(tail - head)
	n := len(dst)
	if n > avail {
		n = avail
	}
	for i := 0; i < n; i++ {
		dst[i] = r.buf[(head+uint64(i))%r.cap]
	}
	r.head.Store(head + uint64(n))
	return n
}

// PopExact returns exactly n samples, or ok=false if fewer than n are
// currently available (no partial pop occurs in that case).
func (c *Consumer) PopExact(n int) (samples []float32, ok bool) {
	if c.AvailableSamples() < n {
		return nil, false
	}
	out := make([]float32, n)
	c.PopSlice(out)
	return out, true
}

// Skip discards up to n samples and returns the count actually discarded.
func (c *Consumer) Skip(n int) int {
	r := c.r
	head := r.head.Load()
	tail := r.tail.Load()
	avail := int(tail - head)
	if n > avail {
		n = avail
	}
	r.head.Store(head + uint64(n))
	return n
}

// Clear discards all buffered samples.
func (c *Consumer) Clear() {
	r := c.r
	r.head.Store(r.tail.Load())
}
