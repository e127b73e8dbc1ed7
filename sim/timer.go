package sim

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"minibsp/logx"
)

// Timer errors
var (
	ErrTimerRunning       = errors.New("sim: timer running")
	ErrTimerNotConfigured = errors.New("sim: timer not configured")
)

// Timer is a periodic hardware timer driven by a time.Ticker. Every period
// raises the installed handler from the ticker goroutine.
type Timer struct {
	tick time.Duration
	wake func()

	mu         sync.Mutex
	period     uint32
	configured bool
	running    bool
	stop       chan struct{}
	handler    func()

	interrupts atomic.Uint64
}

// NewTimer creates a timer whose ticks last tick; wake is called after
// every interrupt
func NewTimer(tick time.Duration, wake func()) *Timer {
	if tick <= 0 {
		tick = 100 * time.Microsecond
	}
	return &Timer{tick: tick, wake: wake}
}

// Configure sets the period in ticks. The timer must be stopped.
func (t *Timer) Configure(periodTicks uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return ErrTimerRunning
	}
	if periodTicks == 0 {
		return ErrTimerNotConfigured
	}
	t.period = periodTicks
	t.configured = true
	return nil
}

// Start begins raising period interrupts. Like a timer whose update flag
// is set by its initialisation, it raises one interrupt right away and
// then one per period. The first one is delivered from the ticker
// goroutine, so Start may be called with interrupts masked.
func (t *Timer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.configured {
		return ErrTimerNotConfigured
	}
	if t.running {
		return nil
	}
	t.running = true
	t.stop = make(chan struct{})
	d := time.Duration(t.period) * t.tick
	logx.Debug(logx.ComponentSim, "timer start", "period", d)
	go t.run(d, t.stop)
	return nil
}

func (t *Timer) run(d time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	t.fireFor(stop)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.fireFor(stop)
		}
	}
}

// fireFor raises an interrupt unless the run owning stop has ended
func (t *Timer) fireFor(stop chan struct{}) {
	t.mu.Lock()
	current := t.running && t.stop == stop
	t.mu.Unlock()
	if current {
		t.Fire()
	}
}

// Stop halts the ticker. It never waits for the ticker goroutine, so it is
// safe to call from the handler.
func (t *Timer) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		close(t.stop)
		t.running = false
	}
	return nil
}

// Deinit stops the timer and forgets its period
func (t *Timer) Deinit() error {
	if err := t.Stop(); err != nil {
		return err
	}
	t.mu.Lock()
	t.configured = false
	t.mu.Unlock()
	return nil
}

// SetHandler installs the period-elapsed handler
func (t *Timer) SetHandler(handler func()) {
	t.mu.Lock()
	t.handler = handler
	t.mu.Unlock()
}

// Fire raises one period-elapsed interrupt immediately
func (t *Timer) Fire() {
	t.mu.Lock()
	h := t.handler
	t.mu.Unlock()

	t.interrupts.Add(1)
	if h != nil {
		h()
	}
	if t.wake != nil {
		t.wake()
	}
}

// Running reports whether the ticker is active
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Period returns the configured period in ticks
func (t *Timer) Period() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

// Interrupts returns the number of interrupts raised
func (t *Timer) Interrupts() uint64 {
	return t.interrupts.Load()
}
