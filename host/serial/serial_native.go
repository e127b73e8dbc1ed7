package serial

import (
	"errors"
	"fmt"

	"github.com/tarm/serial"
)

// ErrBadSetting reports a line setting the host driver cannot apply
var ErrBadSetting = errors.New("unsupported serial setting")

// NativePort wraps the tarm/serial implementation
type NativePort struct {
	port *serial.Port
	cfg  Config
}

// Open opens a native serial port
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	sc, err := toTarm(cfg)
	if err != nil {
		return nil, err
	}

	port, err := serial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return &NativePort{port: port, cfg: *cfg}, nil
}

func toTarm(cfg *Config) (*serial.Config, error) {
	sc := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        8,
		ReadTimeout: cfg.ReadTimeout,
	}
	switch cfg.Parity {
	case 0, 'N', 'n':
		sc.Parity = serial.ParityNone
	case 'E', 'e':
		sc.Parity = serial.ParityEven
	case 'O', 'o':
		sc.Parity = serial.ParityOdd
	default:
		return nil, fmt.Errorf("%w: parity %q", ErrBadSetting, cfg.Parity)
	}
	switch cfg.StopBits {
	case 0, 1:
		sc.StopBits = serial.Stop1
	case 2:
		sc.StopBits = serial.Stop2
	default:
		return nil, fmt.Errorf("%w: %d stop bits", ErrBadSetting, cfg.StopBits)
	}
	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("%w: baud %d", ErrBadSetting, cfg.Baud)
	}
	return sc, nil
}

// Device returns the path the port was opened on
func (p *NativePort) Device() string {
	return p.cfg.Device
}

// Read reads data from the serial port
func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write writes data to the serial port
func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush discards unread input
func (p *NativePort) Flush() error {
	return p.port.Flush()
}
