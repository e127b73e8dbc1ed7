package core

// Output is a digital output pin, such as the indicator LED
type Output struct {
	gpio  GPIODriver
	pin   Pin
	level Level
}

// NewOutput binds an output to a pin; call Configure before use
func NewOutput(gpio GPIODriver, pin Pin) *Output {
	return &Output{gpio: gpio, pin: pin}
}

// Pin returns the hardware pin number
func (o *Output) Pin() Pin {
	return o.pin
}

// Configure sets the pin up as an output driven to initial. Failure is
// fatal.
func (o *Output) Configure(initial Level) error {
	if err := o.gpio.ConfigureOutput(o.pin); err != nil {
		Halt("gpio configure", err)
		return err
	}
	if err := o.gpio.SetPin(o.pin, initial == High); err != nil {
		Halt("gpio configure", err)
		return err
	}
	o.level = initial
	return nil
}

// Set drives the pin. Any non-zero level counts as High.
func (o *Output) Set(level Level) error {
	if level != Low {
		level = High
	}
	if err := o.gpio.SetPin(o.pin, level == High); err != nil {
		return err
	}
	o.level = level
	return nil
}

// Toggle inverts the pin
func (o *Output) Toggle() error {
	if o.level == High {
		return o.Set(Low)
	}
	return o.Set(High)
}

// Level returns the last level written
func (o *Output) Level() Level {
	return o.level
}
