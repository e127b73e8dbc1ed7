// Package console provides character I/O on top of a buffered UART:
// putchar/getchar with an EOF sentinel, and io.Writer / io.Reader with
// the failure semantics of a C library's write and read hooks.
package console

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

// EOF is returned by Getchar when nothing is buffered and by Putchar when
// the byte could not be queued
const EOF = -1

// ErrIO reports that a transfer could not be completed
var ErrIO = errors.New("console: i/o error")

// Console is a character device over a UART
type Console struct {
	uart drivers.UART
	one  [1]byte
}

// New wraps uart
func New(uart drivers.UART) *Console {
	return &Console{uart: uart}
}

// Putchar queues ch and returns it, or EOF when the transmitter is full
func (c *Console) Putchar(ch byte) int {
	c.one[0] = ch
	if n, err := c.uart.Write(c.one[:]); n != 1 || err != nil {
		return EOF
	}
	return int(ch)
}

// Getchar returns the next received byte, or EOF when none is buffered.
// It never blocks.
func (c *Console) Getchar() int {
	if c.uart.Buffered() == 0 {
		return EOF
	}
	var b [1]byte
	if n, _ := c.uart.Read(b[:]); n != 1 {
		return EOF
	}
	return int(b[0])
}

// Write queues p one byte at a time and stops at the first byte that
// cannot be queued, returning the count accepted and ErrIO
func (c *Console) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if c.Putchar(b) == EOF {
			return n, ErrIO
		}
		n++
	}
	return n, nil
}

// Read fills p from the receive buffer. Running out of data before p is
// full is an error: the bytes copied so far are returned with ErrIO.
func (c *Console) Read(p []byte) (n int, err error) {
	for n < len(p) {
		ch := c.Getchar()
		if ch == EOF {
			return n, ErrIO
		}
		p[n] = byte(ch)
		n++
	}
	return n, nil
}

// Print writes s, stopping at the first rejected byte
func (c *Console) Print(s string) error {
	for i := 0; i < len(s); i++ {
		if c.Putchar(s[i]) == EOF {
			return ErrIO
		}
	}
	return nil
}

// Printf formats according to a format specifier and writes the result
func (c *Console) Printf(format string, args ...any) (int, error) {
	return fmt.Fprintf(c, format, args...)
}
