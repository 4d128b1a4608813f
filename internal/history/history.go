// Package history keeps a fixed-capacity sliding window of rate samples.
package history

// DefaultCapacity is the number of samples kept when none is configured.
const DefaultCapacity = 120

// Buffer is a ring buffer that evicts its oldest value once full.
// It is not safe for concurrent use.
type Buffer struct {
	buf   []float64
	start int
	n     int
}

// New returns a Buffer holding at most capacity values. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{buf: make([]float64, capacity)}
}

// Push appends v, dropping the oldest value first when the buffer is full.
func (b *Buffer) Push(v float64) {
	if b.n == len(b.buf) {
		b.buf[b.start] = v
		b.start = (b.start + 1) % len(b.buf)
		return
	}
	b.buf[(b.start+b.n)%len(b.buf)] = v
	b.n++
}

// Snapshot returns a copy of the window, oldest first.
func (b *Buffer) Snapshot() []float64 {
	out := make([]float64, b.n)
	for i := range out {
		out[i] = b.buf[(b.start+i)%len(b.buf)]
	}
	return out
}

func (b *Buffer) Len() int { return b.n }

func (b *Buffer) Cap() int { return len(b.buf) }
