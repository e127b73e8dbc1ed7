// Package bsp is the board support facade used by applications. It owns
// the driver instances, routes platform interrupts to them and exposes the
// small call surface the demo needs: a one-shot millisecond timer, the
// indicator LED, button and receive callbacks, a console and an idle call.
package bsp

import (
	"context"
	"fmt"

	"minibsp/config"
	"minibsp/console"
	"minibsp/core"
)

// GPIOID names a board-level output
type GPIOID uint32

// Board outputs
const (
	GPIOLD2 GPIOID = 0 // Indicator LED
)

// Platform is the set of peripherals a board provides
type Platform struct {
	Timer  core.HardwareTimer
	GPIO   core.GPIODriver
	Serial core.SerialPort
	CPU    core.CPU
}

// BSP is one board instance
type BSP struct {
	cfg     *config.Config
	gpio    core.GPIODriver
	idle    *core.Idle
	timer   *core.Timer
	uart    *core.UART
	led     *core.Output
	button  *core.Button
	console *console.Console
}

// New creates the drivers for platform p. A nil cfg selects the defaults.
func New(p Platform, cfg *config.Config) (*BSP, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bsp: %w", err)
	}
	if p.Timer == nil || p.GPIO == nil || p.Serial == nil {
		return nil, fmt.Errorf("bsp: incomplete platform")
	}

	idle := core.NewIdle(p.CPU)
	uart := core.NewUART(p.Serial, idle, cfg.TxBufferSize, cfg.RxBufferSize)
	return &BSP{
		cfg:     cfg,
		gpio:    p.GPIO,
		idle:    idle,
		timer:   core.NewTimer(p.Timer, idle, core.WithTimeoutInterrupts(cfg.TimerTimeoutIRQs)),
		uart:    uart,
		led:     core.NewOutput(p.GPIO, cfg.LED()),
		button:  core.NewButton(idle),
		console: console.New(uart),
	}, nil
}

// Init configures the peripherals: LED off, button interrupt, UART
// reception. Any failure halts the board.
func (b *BSP) Init() error {
	core.SetDebugEnabled(b.cfg.Debug)

	if err := b.led.Configure(core.Low); err != nil {
		return err
	}
	pin, edge := b.cfg.Button()
	if err := b.button.Attach(b.gpio, pin, edge); err != nil {
		return err
	}
	if err := b.uart.Start(); err != nil {
		return err
	}
	core.DebugPrintln("[BSP] init done")
	return nil
}

// SetTimer arms a one-shot timer for ms milliseconds, replacing any
// outstanding one. cb runs once from interrupt context on expiry. With a
// nil cb SetTimer blocks until the delay has elapsed.
func (b *BSP) SetTimer(ms uint32, cb core.Callback) error {
	return b.timer.Start(MillisToTicks(ms, b.cfg.TickMicros), cb)
}

// Delay blocks for ms milliseconds or until ctx is done
func (b *BSP) Delay(ctx context.Context, ms uint32) error {
	return b.timer.Wait(ctx, MillisToTicks(ms, b.cfg.TickMicros))
}

// CancelTimer stops the outstanding timer, if any
func (b *BSP) CancelTimer() error {
	return b.timer.Stop()
}

// SetGPIO drives a board output
func (b *BSP) SetGPIO(id GPIOID, level core.Level) error {
	switch id {
	case GPIOLD2:
		return b.led.Set(level)
	default:
		return fmt.Errorf("%w: %d", core.ErrUnknownGPIO, id)
	}
}

// RegisterButtonCallback sets the user button callback, replacing any
// previous one
func (b *BSP) RegisterButtonCallback(cb core.Callback) {
	b.button.RegisterCallback(cb)
}

// RegisterGetcharCallback sets the callback run once per received byte,
// replacing any previous one
func (b *BSP) RegisterGetcharCallback(cb core.Callback) {
	b.uart.RegisterRxCallback(cb)
}

// Sleep parks the CPU unless an interrupt was handled since the last call
func (b *BSP) Sleep() bool {
	return b.idle.Sleep()
}

// Console returns the character console on the UART
func (b *BSP) Console() *console.Console { return b.console }

// Config returns the active configuration
func (b *BSP) Config() *config.Config { return b.cfg }

// Timer returns the timer driver
func (b *BSP) Timer() *core.Timer { return b.timer }

// UART returns the UART driver
func (b *BSP) UART() *core.UART { return b.uart }

// Idle returns the idle coordinator
func (b *BSP) Idle() *core.Idle { return b.idle }

// LED returns the indicator LED output
func (b *BSP) LED() *core.Output { return b.led }

// Button returns the user button
func (b *BSP) Button() *core.Button { return b.button }

// MillisToTicks converts milliseconds to timer ticks of tickMicros each,
// saturating at the largest 32-bit period
func MillisToTicks(ms, tickMicros uint32) uint32 {
	if tickMicros == 0 {
		tickMicros = core.DefaultTickMicros
	}
	ticks := uint64(ms) * 1000 / uint64(tickMicros)
	if ticks > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(ticks)
}

// TicksToMicros converts a timer period back to microseconds, saturating at
// the largest 32-bit value
func TicksToMicros(ticks, tickMicros uint32) uint32 {
	if tickMicros == 0 {
		tickMicros = core.DefaultTickMicros
	}
	us := uint64(ticks) * uint64(tickMicros)
	if us > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(us)
}
