package core

import (
	"errors"
	"testing"
	"time"
)

var errFake = errors.New("fake hardware failure")

// fakeTimer is a HardwareTimer whose interrupts are raised by the test
type fakeTimer struct {
	period     uint32
	running    bool
	configures int
	deinits    int
	handler    func()

	failConfigure bool
	failStart     bool
	failStop      bool
}

func (f *fakeTimer) Configure(periodTicks uint32) error {
	if f.failConfigure {
		return errFake
	}
	f.period = periodTicks
	f.configures++
	return nil
}

func (f *fakeTimer) Start() error {
	if f.failStart {
		return errFake
	}
	f.running = true
	return nil
}

func (f *fakeTimer) Stop() error {
	if f.failStop {
		return errFake
	}
	f.running = false
	return nil
}

func (f *fakeTimer) Deinit() error {
	f.deinits++
	return nil
}

func (f *fakeTimer) SetHandler(handler func()) {
	f.handler = handler
}

// Fire raises one period-elapsed interrupt
func (f *fakeTimer) Fire() {
	if f.handler != nil {
		f.handler()
	}
}

// fakeSerial is a SerialPort completing transfers on demand
type fakeSerial struct {
	h        SerialHandlers
	inFlight []byte
	rxSlot   []byte
	out      []byte
	txCalls  int
	runs     []int
}

func (f *fakeSerial) Transmit(p []byte) error {
	if f.inFlight != nil {
		return errors.New("transmit while busy")
	}
	f.txCalls++
	f.runs = append(f.runs, len(p))
	f.inFlight = append([]byte(nil), p...)
	return nil
}

func (f *fakeSerial) Receive(p []byte) error {
	f.rxSlot = p
	return nil
}

func (f *fakeSerial) SetHandlers(h SerialHandlers) {
	f.h = h
}

// CompleteTx finishes the in-flight transmission
func (f *fakeSerial) CompleteTx() bool {
	if f.inFlight == nil {
		return false
	}
	f.out = append(f.out, f.inFlight...)
	f.inFlight = nil
	f.h.TxComplete()
	return true
}

// DrainTx completes transmissions until the transmitter goes idle
func (f *fakeSerial) DrainTx() {
	for f.CompleteTx() {
	}
}

// Deliver receives b into the armed slot. It reports false, dropping the
// byte, when reception is not armed.
func (f *fakeSerial) Deliver(b byte) bool {
	if f.rxSlot == nil {
		return false
	}
	f.rxSlot[0] = b
	f.rxSlot = nil
	f.h.RxComplete()
	return true
}

type fakeCPU struct {
	waits int
}

func (c *fakeCPU) WaitForInterrupt() {
	c.waits++
}

// fakeGPIO keeps pin levels in memory and lets the test raise edges
type fakeGPIO struct {
	outputs  map[Pin]bool
	levels   map[Pin]bool
	handlers map[Pin]func()
	edges    map[Pin]Edge
	failPin  Pin
	fail     bool
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{
		outputs:  make(map[Pin]bool),
		levels:   make(map[Pin]bool),
		handlers: make(map[Pin]func()),
		edges:    make(map[Pin]Edge),
	}
}

func (g *fakeGPIO) ConfigureOutput(pin Pin) error {
	if g.fail && pin == g.failPin {
		return errFake
	}
	g.outputs[pin] = true
	return nil
}

func (g *fakeGPIO) ConfigureInput(pin Pin, edge Edge, handler func()) error {
	if g.fail && pin == g.failPin {
		return errFake
	}
	g.handlers[pin] = handler
	g.edges[pin] = edge
	return nil
}

func (g *fakeGPIO) SetPin(pin Pin, value bool) error {
	if !g.outputs[pin] {
		return ErrUnknownGPIO
	}
	g.levels[pin] = value
	return nil
}

func (g *fakeGPIO) GetPin(pin Pin) (bool, error) {
	return g.levels[pin], nil
}

func (g *fakeGPIO) Edge(pin Pin) {
	if h := g.handlers[pin]; h != nil {
		h()
	}
}

// captureHalts replaces the halt handler for the duration of the test
func captureHalts(t *testing.T) *[]*HaltError {
	t.Helper()
	var halts []*HaltError
	SetHaltHandler(func(err *HaltError) {
		halts = append(halts, err)
	})
	t.Cleanup(func() { SetHaltHandler(nil) })
	return &halts
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("Timed out waiting for %s", what)
		case <-time.After(time.Millisecond):
		}
	}
}
