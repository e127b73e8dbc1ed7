//go:build rp2040

package main

import (
	"context"
	"errors"
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"minibsp/core"
)

var errSerialBusy = errors.New("uart transfer already pending")

// uartSerial adapts the interrupt-buffered uartx driver to core.SerialPort.
// Two pump goroutines complete the transfers: the transmit pump writes each
// run and reports TxComplete, the receive pump waits for one byte per armed
// slot and reports RxComplete. Bytes arriving while reception is paused stay
// in the uartx ring.
type uartSerial struct {
	hw  *uartx.UART
	h   core.SerialHandlers
	tx  chan []byte
	rx  chan []byte
	ctx context.Context
}

func newUARTSerial(ctx context.Context, baud uint32) (*uartSerial, error) {
	hw := uartx.UART0
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	}); err != nil {
		return nil, err
	}
	s := &uartSerial{
		hw:  hw,
		tx:  make(chan []byte, 1),
		rx:  make(chan []byte, 1),
		ctx: ctx,
	}
	go s.txPump()
	go s.rxPump()
	return s, nil
}

func (s *uartSerial) SetHandlers(h core.SerialHandlers) {
	s.h = h
}

func (s *uartSerial) Transmit(p []byte) error {
	select {
	case s.tx <- p:
		return nil
	default:
		return errSerialBusy
	}
}

func (s *uartSerial) Receive(p []byte) error {
	select {
	case s.rx <- p:
		return nil
	default:
		return errSerialBusy
	}
}

func (s *uartSerial) txPump() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case p := <-s.tx:
			if _, err := s.hw.Write(p); err != nil {
				s.h.Error(err)
				continue
			}
			s.h.TxComplete()
		}
	}
}

func (s *uartSerial) rxPump() {
	for {
		var slot []byte
		select {
		case <-s.ctx.Done():
			return
		case slot = <-s.rx:
		}
		b, err := s.hw.RecvByteContext(s.ctx)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.h.Error(err)
			continue
		}
		slot[0] = b
		s.h.RxComplete()
	}
}
