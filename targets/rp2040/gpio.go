//go:build rp2040

package main

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"minibsp/core"
)

// boardGPIO implements core.GPIODriver on machine.Pin. One output may be
// handed to a PIO state machine instead of the SIO block.
type boardGPIO struct {
	outputs map[core.Pin]machine.Pin
	pio     *pioOutput
}

func newBoardGPIO() *boardGPIO {
	return &boardGPIO{outputs: make(map[core.Pin]machine.Pin)}
}

// UsePIO routes pin through a PIO state machine. Call before the pin is
// configured.
func (d *boardGPIO) UsePIO(pin core.Pin) {
	d.pio = &pioOutput{pin: machine.Pin(pin)}
}

func (d *boardGPIO) ConfigureOutput(pin core.Pin) error {
	if d.pio != nil && core.Pin(d.pio.pin) == pin {
		if err := d.pio.init(); err != nil {
			return err
		}
		d.outputs[pin] = d.pio.pin
		return nil
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.outputs[pin] = p
	return nil
}

func (d *boardGPIO) ConfigureInput(pin core.Pin, edge core.Edge, handler func()) error {
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	var change machine.PinChange
	switch edge {
	case core.EdgeNone:
		return nil
	case core.EdgeRising:
		change = machine.PinRising
	case core.EdgeFalling:
		change = machine.PinFalling
	default:
		change = machine.PinToggle
	}
	return p.SetInterrupt(change, func(machine.Pin) {
		handler()
	})
}

func (d *boardGPIO) SetPin(pin core.Pin, value bool) error {
	p, ok := d.outputs[pin]
	if !ok {
		return core.ErrUnknownGPIO
	}
	if d.pio != nil && d.pio.pin == p {
		d.pio.set(value)
		return nil
	}
	p.Set(value)
	return nil
}

func (d *boardGPIO) GetPin(pin core.Pin) (bool, error) {
	if p, ok := d.outputs[pin]; ok {
		if d.pio != nil && d.pio.pin == p {
			return d.pio.level, nil
		}
		return p.Get(), nil
	}
	return machine.Pin(pin).Get(), nil
}

// pioOutput drives one pin from a two-instruction PIO program: every word
// pushed into the TX FIFO sets the pin to its lowest bit.
type pioOutput struct {
	pin   machine.Pin
	sm    rp2pio.StateMachine
	level bool
}

func (o *pioOutput) init() error {
	sm, err := rp2pio.PIO0.ClaimStateMachine()
	if err != nil {
		return err
	}
	o.sm = sm
	pio := sm.PIO()

	program := []uint16{
		rp2pio.EncodePull(false, true),          // pull block
		rp2pio.EncodeOut(rp2pio.SrcDestPins, 1), // out pins, 1
	}
	offset, err := pio.AddProgram(program, -1)
	if err != nil {
		return err
	}

	o.pin.Configure(machine.PinConfig{Mode: pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(o.pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	o.sm.Init(offset, cfg)
	o.sm.SetPindirsConsecutive(o.pin, 1, true)
	o.sm.SetEnabled(true)
	return nil
}

func (o *pioOutput) set(value bool) {
	var word uint32
	if value {
		word = 1
	}
	for o.sm.IsTxFIFOFull() {
	}
	o.sm.TxPut(word)
	o.level = value
}
