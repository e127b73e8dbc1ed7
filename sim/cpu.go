package sim

import (
	"sync/atomic"
	"time"
)

// CPU parks the main loop the way WFI does: a wake raised before the wait
// is not lost, and a wait ends early on the next wake. MaxWait bounds every
// wait, standing in for the periodic system tick of a real board.
type CPU struct {
	wake    chan struct{}
	maxWait time.Duration
	waits   atomic.Uint64
}

// NewCPU creates a CPU; maxWait <= 0 waits for a wake indefinitely
func NewCPU(maxWait time.Duration) *CPU {
	return &CPU{
		wake:    make(chan struct{}, 1),
		maxWait: maxWait,
	}
}

// Wake signals a pending interrupt
func (c *CPU) Wake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// WaitForInterrupt blocks until the next wake
func (c *CPU) WaitForInterrupt() {
	c.waits.Add(1)
	if c.maxWait <= 0 {
		<-c.wake
		return
	}
	t := time.NewTimer(c.maxWait)
	defer t.Stop()
	select {
	case <-c.wake:
	case <-t.C:
	}
}

// Waits returns how often the CPU was parked
func (c *CPU) Waits() uint64 {
	return c.waits.Load()
}
