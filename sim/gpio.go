package sim

import (
	"fmt"
	"sync"

	"minibsp/core"
	"minibsp/logx"
)

type pinState struct {
	output  bool
	level   bool
	edge    core.Edge
	handler func()
}

// GPIO is an in-memory pin bank. Inputs idle high, as with a pulled-up
// button, and raise their handler when Drive produces the configured edge.
type GPIO struct {
	wake func()

	mu    sync.Mutex
	pins  map[core.Pin]*pinState
	watch func(pin core.Pin, level bool)
}

// NewGPIO creates a pin bank; wake is called after every edge interrupt
func NewGPIO(wake func()) *GPIO {
	return &GPIO{wake: wake, pins: make(map[core.Pin]*pinState)}
}

// OnChange registers fn to observe every output write
func (g *GPIO) OnChange(fn func(pin core.Pin, level bool)) {
	g.mu.Lock()
	g.watch = fn
	g.mu.Unlock()
}

// ConfigureOutput configures pin as an output driven low
func (g *GPIO) ConfigureOutput(pin core.Pin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pins[pin] = &pinState{output: true}
	return nil
}

// ConfigureInput configures pin as a pulled-up input
func (g *GPIO) ConfigureInput(pin core.Pin, edge core.Edge, handler func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pins[pin] = &pinState{level: true, edge: edge, handler: handler}
	return nil
}

// SetPin drives an output
func (g *GPIO) SetPin(pin core.Pin, value bool) error {
	g.mu.Lock()
	p, ok := g.pins[pin]
	if !ok || !p.output {
		g.mu.Unlock()
		return fmt.Errorf("%w: pin %d is not an output", core.ErrUnknownGPIO, pin)
	}
	p.level = value
	watch := g.watch
	g.mu.Unlock()

	logx.Debug(logx.ComponentSim, "gpio write", "pin", uint32(pin), "level", value)
	if watch != nil {
		watch(pin, value)
	}
	return nil
}

// GetPin reads a pin
func (g *GPIO) GetPin(pin core.Pin) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pins[pin]
	if !ok {
		return false, fmt.Errorf("%w: pin %d", core.ErrUnknownGPIO, pin)
	}
	return p.level, nil
}

// Drive sets the external level of an input pin, raising its interrupt
// when the transition matches the configured edge
func (g *GPIO) Drive(pin core.Pin, level bool) error {
	g.mu.Lock()
	p, ok := g.pins[pin]
	if !ok || p.output {
		g.mu.Unlock()
		return fmt.Errorf("%w: pin %d is not an input", core.ErrUnknownGPIO, pin)
	}
	old := p.level
	p.level = level
	var fire bool
	switch {
	case !old && level:
		fire = p.edge == core.EdgeRising || p.edge == core.EdgeBoth
	case old && !level:
		fire = p.edge == core.EdgeFalling || p.edge == core.EdgeBoth
	}
	h := p.handler
	g.mu.Unlock()

	if fire && h != nil {
		h()
		if g.wake != nil {
			g.wake()
		}
	}
	return nil
}

// Press pulls an input low
func (g *GPIO) Press(pin core.Pin) error {
	return g.Drive(pin, false)
}

// Release lets an input return high
func (g *GPIO) Release(pin core.Pin) error {
	return g.Drive(pin, true)
}

// Click presses and releases an input
func (g *GPIO) Click(pin core.Pin) error {
	if err := g.Press(pin); err != nil {
		return err
	}
	return g.Release(pin)
}
