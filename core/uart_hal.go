package core

// SerialHandlers are the interrupt entry points a SerialPort calls
type SerialHandlers struct {
	TxComplete func()      // The last Transmit finished
	RxComplete func()      // The last Receive buffer was filled
	Error      func(error) // Framing, overrun or other line error
}

// SerialPort is the abstract asynchronous serial peripheral. Both transfer
// calls return as soon as the hardware accepted the request; completion is
// reported through SerialHandlers. The buffers handed over belong to the
// hardware until the matching completion. Handlers are never called from
// inside Transmit or Receive.
type SerialPort interface {
	// Transmit starts sending p
	Transmit(p []byte) error

	// Receive arms reception of len(p) bytes into p
	Receive(p []byte) error

	// SetHandlers installs the completion and error handlers
	SetHandlers(h SerialHandlers)
}
