package core

import "sync/atomic"

// Idle lets the main loop wait for interrupts without losing a wake-up.
//
// Every handler calls Notify. Sleep consumes one notification per call and
// only parks the CPU once the handlers have gone quiet, so work delivered
// between the main loop's last check and the call to Sleep is seen on the
// next pass instead of being slept through.
type Idle struct {
	cpu     CPU
	pending atomic.Int32
	sleeps  atomic.Uint32
}

// NewIdle creates an idle coordinator parking the given CPU
func NewIdle(cpu CPU) *Idle {
	return &Idle{cpu: cpu}
}

// Notify records that a handler ran. Called from interrupt context.
func (i *Idle) Notify() {
	i.pending.Add(1)
}

// Sleep parks the CPU when no handler has run since the previous decision
// and reports whether it did. The decrement and compare happen with
// interrupts masked; the wait itself happens with them enabled.
func (i *Idle) Sleep() bool {
	state := disableInterrupts()
	n := i.pending.Load() - 1
	if n <= 0 {
		i.pending.Store(0)
		RecordEvent(EvtIdleSleep, 0, 0)
		restoreInterrupts(state)
		i.sleeps.Add(1)
		if i.cpu != nil {
			i.cpu.WaitForInterrupt()
		}
		return true
	}
	i.pending.Store(n)
	RecordEvent(EvtIdleSkip, uint32(n), 0)
	restoreInterrupts(state)
	return false
}

// Pending returns the number of unconsumed handler notifications
func (i *Idle) Pending() int32 {
	return i.pending.Load()
}

// Sleeps returns how many times Sleep parked the CPU
func (i *Idle) Sleeps() uint32 {
	return i.sleeps.Load()
}
