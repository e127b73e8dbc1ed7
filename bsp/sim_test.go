package bsp_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"minibsp/bsp"
	"minibsp/config"
	"minibsp/core"
	"minibsp/sim"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newSimBSP(t *testing.T, tick time.Duration) (*bsp.BSP, *sim.Board, *lockedBuffer) {
	t.Helper()
	out := &lockedBuffer{}
	board := sim.NewBoard(sim.Options{Tick: tick, Out: out})
	t.Cleanup(func() { board.Close() })

	b, err := bsp.New(bsp.Platform{
		Timer:  board.Timer,
		GPIO:   board.GPIO,
		Serial: board.Serial,
		CPU:    board.CPU,
	}, config.Default())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return b, board, out
}

func TestSimTimerExpires(t *testing.T) {
	b, board, _ := newSimBSP(t, time.Microsecond)
	fired := make(chan core.Status, 2)

	if err := b.SetTimer(2, func(s core.Status) { fired <- s }); err != nil {
		t.Fatalf("SetTimer failed: %v", err)
	}
	select {
	case s := <-fired:
		if s != core.StatusOK {
			t.Errorf("Status = %v", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timer never expired")
	}

	time.Sleep(5 * time.Millisecond)
	if len(fired) != 0 {
		t.Error("Timer callback delivered twice")
	}
	if board.Timer.Running() {
		t.Error("Hardware timer left running after expiry")
	}
}

func TestSimBlockingDelay(t *testing.T) {
	b, _, _ := newSimBSP(t, time.Microsecond)

	start := time.Now()
	if err := b.SetTimer(1, nil); err != nil {
		t.Fatalf("Blocking SetTimer failed: %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Blocking SetTimer took far too long")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Delay(ctx, 60000); !errors.Is(err, context.Canceled) {
		t.Errorf("Delay with cancelled context = %v", err)
	}
}

func TestSimConsoleRoundTrip(t *testing.T) {
	b, board, out := newSimBSP(t, time.Microsecond)
	got := make(chan struct{}, 4)
	b.RegisterGetcharCallback(func(core.Status) { got <- struct{}{} })

	if err := b.Console().Print("ready\n"); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	board.Serial.Inject('z')
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("Getchar callback never ran")
	}
	if ch := b.Console().Getchar(); ch != 'z' {
		t.Errorf("Getchar = %d, want 'z'", ch)
	}

	deadline := time.Now().Add(2 * time.Second)
	for out.String() != "ready\n" && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if out.String() != "ready\n" {
		t.Errorf("Serial output = %q", out.String())
	}
}

func TestSimButton(t *testing.T) {
	b, board, _ := newSimBSP(t, time.Microsecond)
	presses := 0
	b.RegisterButtonCallback(func(core.Status) { presses++ })

	pin, _ := b.Config().Button()
	board.GPIO.Click(pin)
	board.GPIO.Click(pin)
	if presses != 2 {
		t.Errorf("Presses = %d, want 2", presses)
	}
	if b.Idle().Pending() < 2 {
		t.Errorf("Idle pending = %d, want at least 2", b.Idle().Pending())
	}
}

func TestSimTimerMatchesWallClock(t *testing.T) {
	b, board, _ := newSimBSP(t, 100*time.Microsecond)
	fired := make(chan time.Time, 1)

	start := time.Now()
	if err := b.SetTimer(100, func(core.Status) { fired <- time.Now() }); err != nil {
		t.Fatalf("SetTimer failed: %v", err)
	}

	select {
	case at := <-fired:
		if d := at.Sub(start); d < 90*time.Millisecond || d > 180*time.Millisecond {
			t.Errorf("SetTimer(100) expired after %v, want about 100ms", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timer never expired")
	}
	if n := board.Timer.Interrupts(); n != 2 {
		t.Errorf("Hardware raised %d interrupts, want 2", n)
	}
}
