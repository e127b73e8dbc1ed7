package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures one interrupt-side event for post-mortem analysis
type TraceEvent struct {
	EventType uint8  // Event type code
	Seq       uint32 // Monotonic event number
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtTimerArm    = 1 // Timer session armed
	EvtTimerTick   = 2 // Timer period elapsed
	EvtTimerFire   = 3 // Timer callback delivered
	EvtTimerStop   = 4 // Timer stopped
	EvtTxStart     = 5 // Transmit run issued
	EvtTxDone      = 6 // Transmit run completed
	EvtRxByte      = 7 // Byte received
	EvtRxStall     = 8 // Reception paused, RX FIFO full
	EvtButton      = 9 // Button edge
	EvtIdleSleep   = 10
	EvtIdleSkip    = 11
	EvtHalt        = 12
	EvtTxRejected  = 13 // PutChar hit a full TX FIFO
	EvtRxRearmed   = 14 // Reception resumed after a drain
	evtTypeMaxName = 14
)

const (
	TraceRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Trace ring (non-blocking, for post-mortem)
	traceRing     [TraceRingSize]TraceEvent
	traceRingHead uint8
	traceSeq      uint32
	traceEnabled  bool = true

	// Async debug output channel
	debugChan chan string
)

var eventNames = [evtTypeMaxName + 1]string{
	"", "TIMER_ARM", "TIMER_TICK", "TIMER_FIRE", "TIMER_STOP",
	"TX_START", "TX_DONE", "RX_BYTE", "RX_STALL", "BUTTON",
	"IDLE_SLEEP", "IDLE_SKIP", "HALT!", "TX_REJECT", "RX_REARM",
}

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Drops the message if the channel is full, so it is safe from a handler.
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent captures an event in the trace ring. Callers are inside a
// handler or a critical section, so the ring needs no lock of its own.
func RecordEvent(eventType uint8, value1, value2 uint32) {
	if !traceEnabled {
		return
	}
	traceSeq++
	idx := traceRingHead
	traceRing[idx] = TraceEvent{
		EventType: eventType,
		Seq:       traceSeq,
		Value1:    value1,
		Value2:    value2,
	}
	traceRingHead = (idx + 1) % TraceRingSize
}

// EventName returns the display name of an event type
func EventName(eventType uint8) string {
	if int(eventType) < len(eventNames) && eventNames[eventType] != "" {
		return eventNames[eventType]
	}
	return "UNKNOWN"
}

// TraceSnapshot copies the ring, oldest event first, skipping empty slots
func TraceSnapshot() []TraceEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	out := make([]TraceEvent, 0, TraceRingSize)
	start := traceRingHead
	for i := uint8(0); i < TraceRingSize; i++ {
		evt := traceRing[(start+i)%TraceRingSize]
		if evt.EventType == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// DumpTrace outputs the trace ring (call on shutdown/error)
func DumpTrace() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[TRACE] === Trace Ring Dump ===")
	for _, evt := range TraceSnapshot() {
		debugPrintln("[TRACE] " + EventName(evt.EventType) +
			" seq=" + utoa(evt.Seq) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TRACE] === End Dump ===")
}

// ClearTrace clears the trace buffer
func ClearTrace() {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceRingHead = 0
	traceSeq = 0
}
