//go:build tinygo

package core

// defaultHalt parks the CPU with interrupts masked
func defaultHalt(err *HaltError) {
	disableInterrupts()
	for {
	}
}
