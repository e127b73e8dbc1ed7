//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// irqMu emulates the global interrupt mask on a hosted build. Main-line
// critical sections and simulated interrupt handlers both hold it, so a
// handler can never observe a half-finished critical section.
var irqMu sync.Mutex

// disableInterrupts masks simulated interrupts and returns the previous state
func disableInterrupts() State {
	irqMu.Lock()
	return 0
}

// restoreInterrupts unmasks simulated interrupts
func restoreInterrupts(state State) {
	irqMu.Unlock()
}

// enterISR marks the start of a handler body. Handlers must not nest.
func enterISR() State {
	irqMu.Lock()
	return 0
}

// exitISR marks the end of a handler body
func exitISR(state State) {
	irqMu.Unlock()
}
