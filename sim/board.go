// Package sim provides a hosted board: peripherals that satisfy the core
// hardware interfaces using goroutines, tickers and byte streams, so the
// drivers and the demo application run unmodified on a development machine.
package sim

import (
	"errors"
	"io"
	"time"
)

// Options configures a simulated board
type Options struct {
	Tick     time.Duration // Duration of one hardware timer tick
	MaxWait  time.Duration // Longest idle wait before the CPU rechecks
	In       io.Reader     // Console input; nil for none
	Out      io.Writer     // Console output; nil discards
	BytePace time.Duration // Wire time of one serial byte
}

// Board is a set of wired simulated peripherals sharing one CPU
type Board struct {
	CPU    *CPU
	Timer  *Timer
	GPIO   *GPIO
	Serial *Serial
}

// NewBoard creates and starts a simulated board
func NewBoard(opts Options) *Board {
	if opts.MaxWait == 0 {
		opts.MaxWait = 10 * time.Millisecond
	}
	cpu := NewCPU(opts.MaxWait)
	return &Board{
		CPU:    cpu,
		Timer:  NewTimer(opts.Tick, cpu.Wake),
		GPIO:   NewGPIO(cpu.Wake),
		Serial: NewSerial(opts.In, opts.Out, opts.BytePace, cpu.Wake),
	}
}

// BytePace returns the wire time of one byte at baud with 8N1 framing
func BytePace(baud uint32) time.Duration {
	if baud == 0 {
		return 0
	}
	return time.Duration(10 * uint64(time.Second) / uint64(baud))
}

// Close stops every peripheral
func (b *Board) Close() error {
	return errors.Join(b.Timer.Deinit(), b.Serial.Close())
}
