package core

// Pin identifies a hardware GPIO pin number
type Pin uint32

// Level is a logic level on a GPIO pin
type Level uint8

// GPIO levels
const (
	Low  Level = 0
	High Level = 1
)

// Edge selects which transition raises a pin interrupt
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// String returns the edge name
func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin Pin) error

	// ConfigureInput configures a pin as an input whose edge interrupt
	// calls handler. EdgeNone configures a plain input.
	ConfigureInput(pin Pin, edge Edge, handler func()) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin Pin, value bool) error

	// GetPin reads the current pin state
	GetPin(pin Pin) (bool, error)
}
