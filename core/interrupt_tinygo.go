//go:build tinygo

package core

import "runtime/interrupt"

// State is the saved interrupt mask
type State = interrupt.State

// disableInterrupts disables interrupts and returns the previous state
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}

// enterISR is a no-op on hardware: main-line code cannot preempt a handler.
func enterISR() interrupt.State {
	return 0
}

// exitISR is a no-op on hardware
func exitISR(state interrupt.State) {}
