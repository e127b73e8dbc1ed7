package core

// CPU is the processor control the idle coordinator needs
type CPU interface {
	// WaitForInterrupt parks the core until the next interrupt
	WaitForInterrupt()
}
