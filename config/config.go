// Package config holds the board and demo settings shared by the firmware
// target and the host tools
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"minibsp/core"
)

// Config errors
var (
	ErrInvalidPin  = errors.New("invalid pin")
	ErrInvalidEdge = errors.New("invalid edge")
)

// BlinkConfig holds the demo LED timings in milliseconds
type BlinkConfig struct {
	InitialMs uint32 `json:"initial_ms"` // Delay before the first toggle
	LongMs    uint32 `json:"long_ms"`    // Long phase
	ShortMs   uint32 `json:"short_ms"`   // Short phase
}

// Config is the complete board description
type Config struct {
	TickMicros       uint32 `json:"tick_us"`            // Hardware timer resolution
	TimerTimeoutIRQs uint8  `json:"timer_timeout_irqs"` // Interrupts per timer session
	TxBufferSize     int    `json:"tx_buffer_size"`
	RxBufferSize     int    `json:"rx_buffer_size"`
	BaudRate         uint32 `json:"baud_rate"`

	LEDPin     string `json:"led_pin"`     // e.g. "gpio25"
	LEDPIO     bool   `json:"led_pio"`     // Drive the LED from a PIO state machine (rp2040)
	ButtonPin  string `json:"button_pin"`  // e.g. "gpio15"
	ButtonEdge string `json:"button_edge"` // rising, falling or both

	Blink  BlinkConfig `json:"blink"`
	Banner string      `json:"banner"`
	Debug  bool        `json:"debug"`
}

// Load parses a JSON configuration, fills in defaults and validates it
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads and parses a JSON configuration file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data)
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.TickMicros == 0 {
		cfg.TickMicros = def.TickMicros
	}
	if cfg.TimerTimeoutIRQs == 0 {
		cfg.TimerTimeoutIRQs = def.TimerTimeoutIRQs
	}
	if cfg.TxBufferSize == 0 {
		cfg.TxBufferSize = def.TxBufferSize
	}
	if cfg.RxBufferSize == 0 {
		cfg.RxBufferSize = def.RxBufferSize
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = def.BaudRate
	}
	if cfg.LEDPin == "" {
		cfg.LEDPin = def.LEDPin
	}
	if cfg.ButtonPin == "" {
		cfg.ButtonPin = def.ButtonPin
	}
	if cfg.ButtonEdge == "" {
		cfg.ButtonEdge = def.ButtonEdge
	}
	if cfg.Blink.InitialMs == 0 {
		cfg.Blink.InitialMs = def.Blink.InitialMs
	}
	if cfg.Blink.LongMs == 0 {
		cfg.Blink.LongMs = def.Blink.LongMs
	}
	if cfg.Blink.ShortMs == 0 {
		cfg.Blink.ShortMs = def.Blink.ShortMs
	}
	if cfg.Banner == "" {
		cfg.Banner = def.Banner
	}
}

// Default returns the reference board configuration
func Default() *Config {
	return &Config{
		TickMicros:       core.DefaultTickMicros,
		TimerTimeoutIRQs: core.DefaultTimeoutInterrupts,
		TxBufferSize:     core.DefaultTxBufferSize,
		RxBufferSize:     core.DefaultRxBufferSize,
		BaudRate:         115200,
		LEDPin:           "gpio25",
		ButtonPin:        "gpio15",
		ButtonEdge:       "falling",
		Blink: BlinkConfig{
			InitialMs: 500,
			LongMs:    650,
			ShortMs:   150,
		},
		Banner: "\n\rHello world!\n\r",
	}
}

// Validate checks that every field is usable
func (c *Config) Validate() error {
	if c.TickMicros == 0 || c.TickMicros > 1000 {
		return fmt.Errorf("tick_us must be in 1..1000, got %d", c.TickMicros)
	}
	if c.TimerTimeoutIRQs == 0 {
		return errors.New("timer_timeout_irqs must be at least 1")
	}
	if c.TxBufferSize <= 0 || c.RxBufferSize <= 0 {
		return fmt.Errorf("buffer sizes must be positive, got tx=%d rx=%d", c.TxBufferSize, c.RxBufferSize)
	}
	if c.BaudRate == 0 {
		return errors.New("baud_rate must be positive")
	}
	if _, err := ParsePin(c.LEDPin); err != nil {
		return fmt.Errorf("led_pin: %w", err)
	}
	if _, err := ParsePin(c.ButtonPin); err != nil {
		return fmt.Errorf("button_pin: %w", err)
	}
	if _, err := ParseEdge(c.ButtonEdge); err != nil {
		return fmt.Errorf("button_edge: %w", err)
	}
	if c.Blink.InitialMs == 0 || c.Blink.LongMs == 0 || c.Blink.ShortMs == 0 {
		return errors.New("blink delays must be positive")
	}
	return nil
}

// LED returns the parsed indicator LED pin
func (c *Config) LED() core.Pin {
	p, _ := ParsePin(c.LEDPin)
	return p
}

// Button returns the parsed button pin and edge
func (c *Config) Button() (core.Pin, core.Edge) {
	p, _ := ParsePin(c.ButtonPin)
	e, _ := ParseEdge(c.ButtonEdge)
	return p, e
}

// ParsePin converts "gpio25", "GP25" or "25" to a pin number
func ParsePin(s string) (core.Pin, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, prefix := range []string{"gpio", "gp"} {
		if strings.HasPrefix(name, prefix) {
			name = name[len(prefix):]
			break
		}
	}
	n, err := strconv.ParseUint(name, 10, 8)
	if err != nil || name == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPin, s)
	}
	return core.Pin(n), nil
}

// ParseEdge converts an edge name to a core.Edge
func ParseEdge(s string) (core.Edge, error) {
	for _, e := range []core.Edge{core.EdgeRising, core.EdgeFalling, core.EdgeBoth} {
		if strings.EqualFold(strings.TrimSpace(s), e.String()) {
			return e, nil
		}
	}
	return core.EdgeNone, fmt.Errorf("%w: %q", ErrInvalidEdge, s)
}
