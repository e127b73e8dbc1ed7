// Package serial opens the host side of a board's console UART
package serial

import (
	"io"
	"time"
)

// Port is an open serial line
type Port interface {
	io.ReadWriteCloser

	// Flush discards data received but not yet read
	Flush() error
}

// Config holds serial port settings
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate; must match the board's configured rate
	Baud int

	// Parity is 'N', 'E' or 'O'
	Parity byte

	// StopBits is 1 or 2
	StopBits int

	// Read timeout (0 = block until data arrives)
	ReadTimeout time.Duration
}

// DefaultConfig returns 115200 8N1 with a short read timeout, so readers
// can poll for shutdown
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		Parity:      'N',
		StopBits:    1,
		ReadTimeout: 100 * time.Millisecond,
	}
}
