package core

// HardwareTimer is the abstract countdown timer the Timer driver runs on.
// Platform-specific implementations handle actual hardware control.
type HardwareTimer interface {
	// Configure programs the period, in ticks of the platform resolution
	Configure(periodTicks uint32) error

	// Start enables the timer and its period-elapsed interrupt. The first
	// interrupt is raised right after starting, the next one a period
	// later; Timer discounts it through its interrupts-per-session count.
	// Start is called with interrupts masked, so the first interrupt must
	// be delivered once they are restored, not from inside Start.
	Start() error

	// Stop disables the interrupt and halts counting
	Stop() error

	// Deinit releases the timer so that it can be reconfigured
	Deinit() error

	// SetHandler installs the period-elapsed interrupt handler
	SetHandler(handler func())
}
