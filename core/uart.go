package core

import "tinygo.org/x/drivers"

// Default FIFO capacities. Output is bursty (banners, echoes) while input
// is drained promptly by the main loop.
const (
	DefaultTxBufferSize = 256
	DefaultRxBufferSize = 16
)

// UART is the interrupt-driven console driver. Transmission drains the TX
// FIFO in contiguous runs, one Transmit per completion; reception is always
// armed for a single byte straight into the RX FIFO write slot.
type UART struct {
	port SerialPort
	idle *Idle
	tx   *FIFO
	rx   *FIFO

	// guarded by disableInterrupts / enterISR
	started    bool
	txBusy     bool
	txInFlight int
	rxArmed    bool

	rxCb callbackSlot
}

var _ drivers.UART = (*UART)(nil)

// NewUART creates a UART driver with the given FIFO capacities
func NewUART(port SerialPort, idle *Idle, txCap, rxCap int) *UART {
	return &UART{
		port: port,
		idle: idle,
		tx:   NewFIFO(txCap),
		rx:   NewFIFO(rxCap),
	}
}

// Start installs the interrupt handlers and arms reception
func (u *UART) Start() error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if u.started {
		return nil
	}
	u.port.SetHandlers(SerialHandlers{
		TxComplete: u.HandleTxComplete,
		RxComplete: u.HandleRxComplete,
		Error:      u.HandleError,
	})
	u.started = true
	return u.armRx()
}

// armRx hands the next RX slot to the hardware, or leaves reception paused
// when the FIFO is full. Must be called masked.
func (u *UART) armRx() error {
	slot := u.rx.WriteSlot()
	if slot == nil {
		u.rxArmed = false
		RecordEvent(EvtRxStall, uint32(u.rx.BytesAvailable()), 0)
		return nil
	}
	if err := u.port.Receive(slot); err != nil {
		u.rxArmed = false
		haltMasked("uart receive", err)
		return err
	}
	u.rxArmed = true
	return nil
}

// kickTx transmits the next contiguous run, or marks the transmitter idle
// when nothing is queued. Must be called masked.
func (u *UART) kickTx() error {
	run := u.tx.ReadRun()
	if len(run) == 0 {
		u.txBusy = false
		u.txInFlight = 0
		return nil
	}
	u.txBusy = true
	u.txInFlight = len(run)
	RecordEvent(EvtTxStart, uint32(len(run)), uint32(u.tx.BytesAvailable()))
	if err := u.port.Transmit(run); err != nil {
		haltMasked("uart transmit", err)
		return err
	}
	return nil
}

// PutChar queues b for transmission and starts the transmitter if it was
// idle. A full TX FIFO rejects the byte with ErrTxFull and keeps its
// previous content.
func (u *UART) PutChar(b byte) error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if !u.started {
		return ErrNotStarted
	}
	if !u.tx.TryPush(b) {
		RecordEvent(EvtTxRejected, uint32(b), 0)
		return ErrTxFull
	}
	if u.txBusy {
		return nil
	}
	return u.kickTx()
}

// GetChar pops one received byte. ok is false when nothing is buffered.
func (u *UART) GetChar() (b byte, ok bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	b, ok = u.rx.TryPop()
	if ok && u.started && !u.rxArmed {
		if u.armRx() == nil && u.rxArmed {
			RecordEvent(EvtRxRearmed, 0, 0)
		}
	}
	return b, ok
}

// RegisterRxCallback sets the function called once per received byte, from
// interrupt context. nil unregisters.
func (u *UART) RegisterRxCallback(cb Callback) {
	u.rxCb.set(cb)
}

// HandleTxComplete is the transmit-complete interrupt handler
func (u *UART) HandleTxComplete() {
	state := enterISR()
	defer exitISR(state)

	if u.idle != nil {
		u.idle.Notify()
	}
	if !u.txBusy {
		return
	}
	RecordEvent(EvtTxDone, uint32(u.txInFlight), 0)
	u.tx.Discard(u.txInFlight)
	u.txInFlight = 0
	_ = u.kickTx()
}

// HandleRxComplete is the receive-complete interrupt handler
func (u *UART) HandleRxComplete() {
	invoke(u.rxComplete(), StatusOK)
}

func (u *UART) rxComplete() Callback {
	state := enterISR()
	defer exitISR(state)

	if u.idle != nil {
		u.idle.Notify()
	}
	if !u.rxArmed {
		return nil
	}
	u.rxArmed = false
	u.rx.Commit(1)
	RecordEvent(EvtRxByte, uint32(u.rx.BytesAvailable()), 0)
	_ = u.armRx()
	return u.rxCb.load()
}

// HandleError is the line-error interrupt handler. Transfer errors are not
// retried.
func (u *UART) HandleError(err error) {
	state := enterISR()
	defer exitISR(state)
	if u.idle != nil {
		u.idle.Notify()
	}
	haltMasked("uart transfer", err)
}

// Write queues p for transmission. It stops at the first byte the TX FIFO
// rejects and reports how many were accepted.
func (u *UART) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if err := u.PutChar(b); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// WriteByte queues a single byte
func (u *UART) WriteByte(b byte) error {
	return u.PutChar(b)
}

// Read copies buffered received bytes into p without blocking. It returns
// 0, nil when nothing is buffered.
func (u *UART) Read(p []byte) (n int, err error) {
	for n < len(p) {
		b, ok := u.GetChar()
		if !ok {
			break
		}
		p[n] = b
		n++
	}
	return n, nil
}

// Buffered returns the number of received bytes waiting to be read
func (u *UART) Buffered() int {
	return u.rx.BytesAvailable()
}

// TxFree returns the free space in the TX FIFO
func (u *UART) TxFree() int {
	return u.tx.SpaceAvailable()
}

// TxPending returns the bytes queued or in flight
func (u *UART) TxPending() int {
	return u.tx.BytesAvailable()
}

// TxBusy reports whether a transmission is in progress
func (u *UART) TxBusy() bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return u.txBusy
}

// RxArmed reports whether reception is armed. It is false while the RX
// FIFO is full.
func (u *UART) RxArmed() bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return u.rxArmed
}
