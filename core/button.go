package core

import "sync/atomic"

// Button tracks a push-button wired to an edge-triggered GPIO input. Every
// edge toggles the logical state; there is no debouncing, so a bouncing
// contact produces several toggles.
type Button struct {
	idle    *Idle
	pressed atomic.Bool
	edges   atomic.Uint32
	cb      callbackSlot
}

// NewButton creates a button tracker
func NewButton(idle *Idle) *Button {
	return &Button{idle: idle}
}

// Attach configures pin as an interrupt input routed to HandleEdge
func (b *Button) Attach(gpio GPIODriver, pin Pin, edge Edge) error {
	if err := gpio.ConfigureInput(pin, edge, b.HandleEdge); err != nil {
		Halt("button configure", err)
		return err
	}
	return nil
}

// RegisterCallback sets the function called on every edge. nil unregisters.
func (b *Button) RegisterCallback(cb Callback) {
	b.cb.set(cb)
}

// Pressed returns the toggled state
func (b *Button) Pressed() bool {
	return b.pressed.Load()
}

// Edges returns the number of edges handled
func (b *Button) Edges() uint32 {
	return b.edges.Load()
}

// HandleEdge is the GPIO edge interrupt handler
func (b *Button) HandleEdge() {
	state := enterISR()
	pressed := !b.pressed.Load()
	b.pressed.Store(pressed)
	n := b.edges.Add(1)
	RecordEvent(EvtButton, n, boolToU32(pressed))
	if b.idle != nil {
		b.idle.Notify()
	}
	cb := b.cb.load()
	exitISR(state)

	invoke(cb, StatusOK)
}

func boolToU32(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
