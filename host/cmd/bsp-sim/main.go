// Command bsp-sim runs the blink and echo demo on a simulated board. The
// console is attached to stdin/stdout, or to a real serial device when
// -device is given.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minibsp/app"
	"minibsp/bsp"
	"minibsp/config"
	"minibsp/core"
	"minibsp/host/serial"
	"minibsp/logx"
	"minibsp/sim"
)

var (
	configPath  = flag.String("config", "", "Board configuration file (JSON)")
	device      = flag.String("device", "", "Serial device for the console (default stdio)")
	baud        = flag.Int("baud", 0, "Console baud rate (default from config)")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	jsonLog     = flag.Bool("json", false, "Log as JSON")
	tick        = flag.Duration("tick", 0, "Wall time of one timer tick (default tick_us from config)")
	buttonEvery = flag.Duration("button-every", 0, "Click the button periodically")
	trace       = flag.Bool("trace", false, "Dump the event trace on exit")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	format := logx.FormatText
	if *jsonLog {
		format = logx.FormatJSON
	}
	logx.SetLogger(logx.NewLogger(os.Stderr, format))
	lvl, err := logx.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	logx.SetLevel(lvl)

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.LoadFile(*configPath); err != nil {
			return err
		}
	}
	if *baud > 0 {
		cfg.BaudRate = uint32(*baud)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var halted *core.HaltError
	core.SetDebugWriter(logx.FirmwareWriter())
	core.InitAsyncDebug()
	core.SetHaltHandler(func(e *core.HaltError) {
		logx.Error(logx.ComponentBSP, "board halted", "op", e.Op, "err", e.Err)
		halted = e
		cancel()
	})

	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if *device != "" {
		pcfg := serial.DefaultConfig(*device)
		pcfg.Baud = int(cfg.BaudRate)
		pcfg.ReadTimeout = 0
		port, err := serial.Open(pcfg)
		if err != nil {
			return err
		}
		defer port.Close()
		in, out = port, port
		logx.Info(logx.ComponentSerial, "console attached", "device", *device, "baud", pcfg.Baud)
	}

	tickDur := *tick
	if tickDur == 0 {
		tickDur = time.Duration(cfg.TickMicros) * time.Microsecond
	}
	board := sim.NewBoard(sim.Options{
		Tick:     tickDur,
		In:       in,
		Out:      out,
		BytePace: sim.BytePace(cfg.BaudRate),
	})
	defer func() {
		if err := board.Close(); err != nil {
			logx.Warn(logx.ComponentSim, "close", "err", err)
		}
	}()

	ledPin := cfg.LED()
	board.GPIO.OnChange(func(pin core.Pin, level bool) {
		if pin == ledPin {
			logx.Info(logx.ComponentSim, "led", "on", level)
		}
	})

	b, err := bsp.New(bsp.Platform{
		Timer:  board.Timer,
		GPIO:   board.GPIO,
		Serial: board.Serial,
		CPU:    board.CPU,
	}, cfg)
	if err != nil {
		return err
	}
	if err := b.Init(); err != nil {
		return err
	}

	if *buttonEvery > 0 {
		go clickButton(ctx, board.GPIO, cfg, *buttonEvery)
	}

	logx.Info(logx.ComponentSim, "running", "tick", tickDur, "led", cfg.LEDPin, "button", cfg.ButtonPin)
	a := app.New(b)
	err = a.Run(ctx)
	logx.Info(logx.ComponentSim, "stopped",
		"blinks", a.Blinks(),
		"echoed", a.Echoed(),
		"mode", a.Mode().String(),
		"timer_irqs", board.Timer.Interrupts(),
		"cpu_waits", board.CPU.Waits(),
		"rx_dropped", board.Serial.Dropped(),
		"input_closed", board.Serial.InputClosed())
	if *trace {
		core.DumpTrace()
	}
	if halted != nil {
		return halted
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func clickButton(ctx context.Context, gpio *sim.GPIO, cfg *config.Config, every time.Duration) {
	pin, _ := cfg.Button()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := gpio.Click(pin); err != nil {
				logx.Warn(logx.ComponentSim, "button click", "err", err)
				continue
			}
			logx.Debug(logx.ComponentSim, "button clicked", "pin", pin)
		}
	}
}
