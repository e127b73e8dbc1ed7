package core

// HaltHandler is invoked on an unrecoverable fault. It must not return on
// hardware; hosts may return to let a test or tool observe the fault.
type HaltHandler func(err *HaltError)

var haltHandler HaltHandler = defaultHalt

// SetHaltHandler replaces the fatal-fault handler. Passing nil restores the
// platform default.
func SetHaltHandler(h HaltHandler) {
	if h == nil {
		h = defaultHalt
	}
	haltHandler = h
}

// Halt stops the system after a peripheral configuration failure or a
// hardware-reported transfer error. There is no recovery path at this layer.
// Halt is for main-line code; handlers and critical sections use
// haltMasked.
func Halt(op string, err error) {
	state := disableInterrupts()
	RecordEvent(EvtHalt, 0, 0)
	restoreInterrupts(state)
	report(&HaltError{Op: op, Err: err})
}

// haltMasked is Halt for callers already inside a handler or a critical
// section
func haltMasked(op string, err error) {
	RecordEvent(EvtHalt, 0, 0)
	report(&HaltError{Op: op, Err: err})
}

func report(e *HaltError) {
	DebugPrintln(e.Error())
	haltHandler(e)
}
