//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	"minibsp/app"
	"minibsp/bsp"
	"minibsp/config"
	"minibsp/core"
)

// idleSlice bounds one idle wait. The runtime parks the core in WFI for
// the duration and the UART pumps get scheduled.
const idleSlice = time.Millisecond

// sleepCPU implements core.CPU on top of the runtime scheduler
type sleepCPU struct{}

func (sleepCPU) WaitForInterrupt() {
	time.Sleep(idleSlice)
}

func main() {
	// Clear any watchdog state left over from before the reset
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	core.SetDebugWriter(func(s string) { println(s) })
	core.InitAsyncDebug()

	cfg := config.Default()
	ctx := context.Background()

	serial, err := newUARTSerial(ctx, cfg.BaudRate)
	if err != nil {
		core.Halt("uart configure", err)
	}
	gpio := newBoardGPIO()
	if cfg.LEDPIO {
		gpio.UsePIO(cfg.LED())
	}

	board, err := bsp.New(bsp.Platform{
		Timer:  newAlarmTimer(cfg.TickMicros),
		GPIO:   gpio,
		Serial: serial,
		CPU:    sleepCPU{},
	}, cfg)
	if err != nil {
		core.Halt("bsp", err)
	}
	if err := board.Init(); err != nil {
		core.Halt("bsp init", err)
	}

	if err := app.New(board).Run(ctx); err != nil {
		core.Halt("app", err)
	}
}
