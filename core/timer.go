package core

import (
	"context"
	"sync/atomic"
)

// DefaultTickMicros is the timer resolution of the reference board
const DefaultTickMicros = 100

// DefaultTimeoutInterrupts is how many period-elapsed interrupts a session
// waits for. The hardware raises one as it starts and the next a period
// later, so with the default a session lasts one period.
const DefaultTimeoutInterrupts = 2

// TimerState is the position of a session in its state machine
type TimerState uint8

const (
	TimerReset   TimerState = iota // Armed or idle, no interrupt seen yet
	TimerFirst                     // At least one interrupt seen
	TimerTimeout                   // Session expired; terminal until the next Start
)

// String returns the state name
func (s TimerState) String() string {
	switch s {
	case TimerReset:
		return "reset"
	case TimerFirst:
		return "first"
	case TimerTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// TimerOption customises a Timer
type TimerOption func(*Timer)

// WithTimeoutInterrupts sets how many interrupts end a session (minimum 1)
func WithTimeoutInterrupts(n uint8) TimerOption {
	return func(t *Timer) {
		if n == 0 {
			n = 1
		}
		t.timeoutIRQs = n
	}
}

// Timer runs one-shot sessions on a HardwareTimer. Only one session can be
// outstanding; starting a new one silently replaces the old one and its
// callback.
type Timer struct {
	hw          HardwareTimer
	idle        *Idle
	timeoutIRQs uint8

	// guarded by disableInterrupts / enterISR
	elapsed uint8
	armed   bool
	session uint32

	cb          callbackSlot
	expirations atomic.Uint32
}

// NewTimer creates a timer driver and installs its interrupt handler
func NewTimer(hw HardwareTimer, idle *Idle, opts ...TimerOption) *Timer {
	t := &Timer{
		hw:          hw,
		idle:        idle,
		timeoutIRQs: DefaultTimeoutInterrupts,
	}
	for _, opt := range opts {
		opt(t)
	}
	hw.SetHandler(t.HandlePeriodElapsed)
	return t
}

// TimeoutInterrupts returns the configured interrupts-per-session count
func (t *Timer) TimeoutInterrupts() uint8 {
	return t.timeoutIRQs
}

// Start cancels any outstanding session and arms a new one lasting ticks.
// cb runs once, from interrupt context, when the session expires. A nil cb
// turns Start into a blocking delay.
func (t *Timer) Start(ticks uint32, cb Callback) error {
	if cb == nil {
		return t.Wait(context.Background(), ticks)
	}
	_, err := t.arm(ticks, cb)
	return err
}

// Wait arms a session and blocks until it expires or ctx is done. On
// cancellation the session is stopped unless another Start replaced it.
func (t *Timer) Wait(ctx context.Context, ticks uint32) error {
	done := make(chan struct{}, 1)
	session, err := t.arm(ticks, func(Status) {
		select {
		case done <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		t.cancel(session)
		return ctx.Err()
	}
}

func (t *Timer) arm(ticks uint32, cb Callback) (uint32, error) {
	if ticks == 0 {
		return 0, ErrInvalidPeriod
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	if err := t.stopHW(); err != nil {
		return 0, err
	}
	t.cb.set(cb)
	t.elapsed = 0
	t.session++

	if err := t.hw.Configure(ticks); err != nil {
		haltMasked("timer configure", err)
		return 0, err
	}
	if err := t.hw.Start(); err != nil {
		haltMasked("timer start", err)
		return 0, err
	}
	t.armed = true
	RecordEvent(EvtTimerArm, ticks, t.session)
	return t.session, nil
}

// stopHW halts and releases the hardware timer. Must be called masked.
func (t *Timer) stopHW() error {
	if err := t.hw.Stop(); err != nil {
		haltMasked("timer stop", err)
		return err
	}
	if err := t.hw.Deinit(); err != nil {
		haltMasked("timer deinit", err)
		return err
	}
	return nil
}

// Stop disables the hardware timer and forgets the session. It is safe to
// call at any time, including when nothing is armed.
func (t *Timer) Stop() error {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return t.stopLocked()
}

func (t *Timer) stopLocked() error {
	t.armed = false
	t.elapsed = 0
	t.cb.set(nil)
	RecordEvent(EvtTimerStop, t.session, 0)
	return t.stopHW()
}

func (t *Timer) cancel(session uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	if t.session == session && t.armed {
		_ = t.stopLocked()
	}
}

// HandlePeriodElapsed is the period-elapsed interrupt handler
func (t *Timer) HandlePeriodElapsed() {
	invoke(t.periodElapsed(), StatusOK)
}

func (t *Timer) periodElapsed() Callback {
	state := enterISR()
	defer exitISR(state)

	if t.idle != nil {
		t.idle.Notify()
	}
	if !t.armed {
		return nil
	}
	t.elapsed++
	RecordEvent(EvtTimerTick, uint32(t.elapsed), t.session)
	if t.elapsed < t.timeoutIRQs {
		return nil
	}

	t.armed = false
	if err := t.hw.Stop(); err != nil {
		haltMasked("timer stop", err)
		return nil
	}
	t.expirations.Add(1)
	RecordEvent(EvtTimerFire, t.session, 0)
	return t.cb.take()
}

// State returns the current session state
func (t *Timer) State() TimerState {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	switch {
	case t.elapsed == 0:
		return TimerReset
	case t.elapsed < t.timeoutIRQs:
		return TimerFirst
	default:
		return TimerTimeout
	}
}

// Armed reports whether a session is outstanding
func (t *Timer) Armed() bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return t.armed
}

// Expirations returns the number of sessions that ran to completion
func (t *Timer) Expirations() uint32 {
	return t.expirations.Load()
}
