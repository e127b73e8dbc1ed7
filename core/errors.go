package core

import "errors"

// BSP errors.
var (
	// ErrTxFull indicates the transmit FIFO rejected a byte.
	ErrTxFull = errors.New("tx fifo full")

	// ErrInvalidPeriod indicates a zero-length timer period.
	ErrInvalidPeriod = errors.New("invalid timer period")

	// ErrNotStarted indicates a driver was used before Start.
	ErrNotStarted = errors.New("driver not started")

	// ErrUnknownGPIO indicates an unmapped GPIO identifier.
	ErrUnknownGPIO = errors.New("unknown gpio")
)

// Status is the result code handed to callbacks.
type Status uint32

// Callback status values.
const (
	StatusOK   Status = iota // Event completed normally
	StatusFail               // Event completed with a failure
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// HaltError describes the condition that stopped the system.
type HaltError struct {
	Op  string
	Err error
}

func (e *HaltError) Error() string {
	if e.Err == nil {
		return "halt: " + e.Op
	}
	return "halt: " + e.Op + ": " + e.Err.Error()
}

func (e *HaltError) Unwrap() error { return e.Err }
