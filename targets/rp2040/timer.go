//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"minibsp/bsp"
)

// RP2040 Timer peripheral memory map. The runtime owns ALARM0 for
// time.Sleep, so the board timer runs on ALARM1.
const (
	timerBase     = 0x40054000
	timerALARM1   = timerBase + 0x14
	timerARMED    = timerBase + 0x20
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word
	timerINTR     = timerBase + 0x34
	timerINTE     = timerBase + 0x38

	alarm1Bit = 1 << 1

	// startLeadUs places the start interrupt just ahead of the counter
	startLeadUs = 2
)

var (
	regALARM1 = (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM1)))
	regARMED  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerARMED)))
	regRAWL   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
	regINTR   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR)))
	regINTE   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTE)))
)

var errTimerBusy = errors.New("alarm timer running")

// alarmTimer is a periodic timer built from ALARM1 of the 1MHz system
// timer. Each interrupt re-arms the alarm one period later.
type alarmTimer struct {
	tickMicros uint32
	periodUs   uint32
	running    bool
	handler    func()
	irq        interrupt.Interrupt
}

// boardTimer is the instance alarmIRQ services
var boardTimer *alarmTimer

func newAlarmTimer(tickMicros uint32) *alarmTimer {
	t := &alarmTimer{tickMicros: tickMicros}
	boardTimer = t
	t.irq = interrupt.New(rp.IRQ_TIMER_IRQ_1, alarmIRQ)
	return t
}

func (t *alarmTimer) Configure(periodTicks uint32) error {
	if t.running {
		return errTimerBusy
	}
	// ALARM1 compares the low 32 bits of the counter
	t.periodUs = bsp.TicksToMicros(periodTicks, t.tickMicros)
	return nil
}

// Start raises one interrupt right away, then one per period
func (t *alarmTimer) Start() error {
	regINTR.Set(alarm1Bit)
	regINTE.SetBits(alarm1Bit)
	t.running = true
	regALARM1.Set(regRAWL.Get() + startLeadUs)
	t.irq.Enable()
	return nil
}

func (t *alarmTimer) Stop() error {
	t.running = false
	regINTE.ClearBits(alarm1Bit)
	regARMED.Set(alarm1Bit) // write 1 to disarm
	regINTR.Set(alarm1Bit)
	return nil
}

func (t *alarmTimer) Deinit() error {
	t.periodUs = 0
	return nil
}

func (t *alarmTimer) SetHandler(handler func()) {
	t.handler = handler
}

func alarmIRQ(interrupt.Interrupt) {
	t := boardTimer
	regINTR.Set(alarm1Bit)
	if t == nil || !t.running {
		return
	}
	regALARM1.Set(regALARM1.Get() + t.periodUs)
	if t.handler != nil {
		t.handler()
	}
}
