package core

import "sync/atomic"

// FIFO is a fixed-capacity circular byte buffer shared by one producer and
// one consumer. The producer owns the write counter and the consumer owns
// the read counter; both run over [0, 2*cap) so a full buffer and an empty
// one are distinguishable without a separate count field.
//
// The FIFO does no locking of its own. Callers that need a multi-step
// invariant across contexts wrap it in disableInterrupts.
type FIFO struct {
	buf   []byte
	write atomic.Uint32
	read  atomic.Uint32
}

// NewFIFO creates a FIFO holding up to capacity bytes
func NewFIFO(capacity int) *FIFO {
	if capacity <= 0 {
		panic("core: FIFO capacity must be positive")
	}
	return &FIFO{buf: make([]byte, capacity)}
}

// Cap returns the fixed capacity
func (f *FIFO) Cap() int {
	return len(f.buf)
}

func (f *FIFO) wrap() uint32 {
	return uint32(2 * len(f.buf))
}

func (f *FIFO) advance(c uint32, n int) uint32 {
	return (c + uint32(n)) % f.wrap()
}

func (f *FIFO) pos(c uint32) int {
	p := int(c)
	if p >= len(f.buf) {
		p -= len(f.buf)
	}
	return p
}

func (f *FIFO) count(w, r uint32) int {
	return int((w + f.wrap() - r) % f.wrap())
}

// BytesAvailable returns the number of buffered bytes
func (f *FIFO) BytesAvailable() int {
	return f.count(f.write.Load(), f.read.Load())
}

// SpaceAvailable returns the number of bytes that can still be pushed
func (f *FIFO) SpaceAvailable() int {
	return len(f.buf) - f.BytesAvailable()
}

// Full reports whether a push would be rejected
func (f *FIFO) Full() bool {
	return f.BytesAvailable() == len(f.buf)
}

// Empty reports whether a pop would return nothing
func (f *FIFO) Empty() bool {
	return f.BytesAvailable() == 0
}

// TryPush appends b. A full FIFO rejects the byte and is left untouched.
func (f *FIFO) TryPush(b byte) bool {
	w := f.write.Load()
	if f.count(w, f.read.Load()) == len(f.buf) {
		return false
	}
	f.buf[f.pos(w)] = b
	f.write.Store(f.advance(w, 1))
	return true
}

// TryPop removes the oldest byte. ok is false when the FIFO is empty.
func (f *FIFO) TryPop() (b byte, ok bool) {
	r := f.read.Load()
	if f.count(f.write.Load(), r) == 0 {
		return 0, false
	}
	b = f.buf[f.pos(r)]
	f.read.Store(f.advance(r, 1))
	return b, true
}

// ReadRun returns the buffered bytes that are contiguous in storage, from
// the read index up to the write index or the end of storage, whichever
// comes first. The slice aliases the FIFO; it stays valid until Discard.
func (f *FIFO) ReadRun() []byte {
	r := f.read.Load()
	n := f.count(f.write.Load(), r)
	if n == 0 {
		return nil
	}
	start := f.pos(r)
	end := start + n
	if end > len(f.buf) {
		end = len(f.buf)
	}
	return f.buf[start:end]
}

// Discard drops up to n bytes from the read side
func (f *FIFO) Discard(n int) {
	r := f.read.Load()
	if avail := f.count(f.write.Load(), r); n > avail {
		n = avail
	}
	if n <= 0 {
		return
	}
	f.read.Store(f.advance(r, n))
}

// WriteSlot returns a one-byte view of storage at the write index, for a
// producer that fills it out of band and then calls Commit. It returns nil
// when the FIFO is full.
func (f *FIFO) WriteSlot() []byte {
	w := f.write.Load()
	if f.count(w, f.read.Load()) == len(f.buf) {
		return nil
	}
	p := f.pos(w)
	return f.buf[p : p+1]
}

// Commit publishes up to n bytes written through WriteSlot
func (f *FIFO) Commit(n int) {
	w := f.write.Load()
	if space := len(f.buf) - f.count(w, f.read.Load()); n > space {
		n = space
	}
	if n <= 0 {
		return
	}
	f.write.Store(f.advance(w, n))
}

// Reset empties the FIFO. Only safe while neither side is active.
func (f *FIFO) Reset() {
	f.write.Store(0)
	f.read.Store(0)
}
