// Package app is the demo application: it blinks the indicator LED with an
// asymmetric on/off pattern, swaps the pattern on every button event and
// echoes characters received on the console.
package app

import (
	"context"
	"sync/atomic"

	"minibsp/bsp"
	"minibsp/config"
	"minibsp/console"
	"minibsp/core"
)

// Mode selects which LED phase gets the long delay
type Mode uint8

const (
	ModeLongOn  Mode = iota // LED on for the long phase, off for the short one
	ModeLongOff             // LED off for the long phase, on for the short one
	modeCount
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeLongOn:
		return "long-on"
	case ModeLongOff:
		return "long-off"
	default:
		return "unknown"
	}
}

// App holds the demo state. The callbacks only set flags; all work happens
// in Step on the main loop.
type App struct {
	board  *bsp.BSP
	blink  config.BlinkConfig
	banner string

	pressed atomic.Bool
	timeout atomic.Bool
	rxReady atomic.Bool

	ledOn  bool
	mode   Mode
	echoed uint32
	blinks uint32
}

// New creates the application on a board
func New(board *bsp.BSP) *App {
	cfg := board.Config()
	return &App{
		board:  board,
		blink:  cfg.Blink,
		banner: cfg.Banner,
	}
}

// Start registers the callbacks, arms the first blink timer and prints the
// banner
func (a *App) Start() error {
	a.board.RegisterButtonCallback(a.onButton)
	a.board.RegisterGetcharCallback(a.onGetchar)
	if err := a.board.SetTimer(a.blink.InitialMs, a.onTimeout); err != nil {
		return err
	}
	// A banner that does not fit the TX buffer is truncated, not fatal
	if err := a.board.Console().Print(a.banner); err != nil {
		core.DebugPrintln("[APP] banner truncated")
	}
	return nil
}

func (a *App) onButton(status core.Status) {
	if status != core.StatusOK {
		core.Halt("button", nil)
		return
	}
	a.pressed.Store(!a.pressed.Load())
}

func (a *App) onTimeout(core.Status) {
	a.timeout.Store(true)
}

func (a *App) onGetchar(core.Status) {
	a.rxReady.Store(true)
}

// Step runs one pass of the main loop without sleeping
func (a *App) Step() error {
	if a.pressed.Load() {
		a.mode = (a.mode + 1) % modeCount
		a.pressed.Store(false)
		core.DebugAsync("[APP] mode " + a.mode.String())
	}

	if a.rxReady.Swap(false) {
		a.echo()
	}

	if a.timeout.Swap(false) {
		return a.toggle()
	}
	return nil
}

// echo writes back everything received so far
func (a *App) echo() {
	con := a.board.Console()
	for {
		ch := con.Getchar()
		if ch == console.EOF {
			return
		}
		if con.Putchar(byte(ch)) == console.EOF {
			return
		}
		a.echoed++
	}
}

func (a *App) toggle() error {
	var delay uint32
	if a.ledOn {
		if err := a.board.SetGPIO(bsp.GPIOLD2, core.High); err != nil {
			return err
		}
		delay = a.blink.ShortMs
		if a.mode == ModeLongOn {
			delay = a.blink.LongMs
		}
	} else {
		if err := a.board.SetGPIO(bsp.GPIOLD2, core.Low); err != nil {
			return err
		}
		delay = a.blink.LongMs
		if a.mode == ModeLongOn {
			delay = a.blink.ShortMs
		}
	}
	a.blinks++
	if err := a.board.SetTimer(delay, a.onTimeout); err != nil {
		return err
	}
	a.ledOn = !a.ledOn
	return nil
}

// Run starts the application and loops until ctx is done, sleeping
// between passes
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.Step(); err != nil {
			return err
		}
		a.board.Sleep()
	}
}

// Mode returns the current blink mode
func (a *App) Mode() Mode { return a.mode }

// LEDOn reports whether the next blink phase turns the LED on
func (a *App) LEDOn() bool { return a.ledOn }

// Echoed returns the number of characters echoed
func (a *App) Echoed() uint32 { return a.echoed }

// Blinks returns the number of LED phases completed
func (a *App) Blinks() uint32 { return a.blinks }
