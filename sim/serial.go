package sim

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"minibsp/core"
	"minibsp/logx"
)

// ErrSerialBusy reports a Transmit issued while another is in flight
var ErrSerialBusy = errors.New("sim: transmit in progress")

// Serial is a UART peripheral backed by byte streams. Transmitted runs are
// written to out from a worker goroutine which then raises TxComplete.
// Bytes read from in land in the armed receive slot and raise RxComplete;
// a byte arriving while reception is not armed is dropped, as an overrun
// would drop it on hardware.
type Serial struct {
	in   io.Reader
	out  io.Writer
	pace time.Duration
	wake func()

	mu       sync.Mutex
	handlers core.SerialHandlers
	slot     []byte

	txq  chan []byte
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	txBytes atomic.Uint64
	rxBytes atomic.Uint64
	dropped atomic.Uint64
	rxEOF   atomic.Bool
}

// NewSerial starts a serial peripheral. in may be nil for a transmit-only
// line. pace is the time one byte takes on the wire; zero disables pacing.
func NewSerial(in io.Reader, out io.Writer, pace time.Duration, wake func()) *Serial {
	if out == nil {
		out = io.Discard
	}
	s := &Serial{
		in:   in,
		out:  out,
		pace: pace,
		wake: wake,
		txq:  make(chan []byte, 1),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.txLoop()
	if in != nil {
		go s.rxLoop()
	}
	return s
}

// Transmit queues p for the worker. Only one transfer may be in flight.
func (s *Serial) Transmit(p []byte) error {
	select {
	case s.txq <- p:
		return nil
	default:
		return ErrSerialBusy
	}
}

// Receive arms reception into p[0]
func (s *Serial) Receive(p []byte) error {
	s.mu.Lock()
	s.slot = p
	s.mu.Unlock()
	return nil
}

// SetHandlers installs the interrupt handlers
func (s *Serial) SetHandlers(h core.SerialHandlers) {
	s.mu.Lock()
	s.handlers = h
	s.mu.Unlock()
}

func (s *Serial) currentHandlers() core.SerialHandlers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handlers
}

func (s *Serial) raise() {
	if s.wake != nil {
		s.wake()
	}
}

func (s *Serial) txLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case p := <-s.txq:
			if s.pace > 0 {
				time.Sleep(time.Duration(len(p)) * s.pace)
			}
			_, err := s.out.Write(p)
			h := s.currentHandlers()
			if err != nil {
				logx.Error(logx.ComponentSim, "serial write failed", "err", err)
				if h.Error != nil {
					h.Error(err)
				}
				s.raise()
				continue
			}
			s.txBytes.Add(uint64(len(p)))
			if h.TxComplete != nil {
				h.TxComplete()
			}
			s.raise()
		}
	}
}

func (s *Serial) rxLoop() {
	var buf [64]byte
	for {
		n, err := s.in.Read(buf[:])
		for _, b := range buf[:n] {
			select {
			case <-s.done:
				return
			default:
			}
			if s.pace > 0 {
				time.Sleep(s.pace)
			}
			s.Inject(b)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logx.Warn(logx.ComponentSim, "serial read failed", "err", err)
			}
			s.rxEOF.Store(true)
			return
		}
	}
}

// Inject delivers one byte as if it arrived on the line. It reports
// whether reception was armed to take it.
func (s *Serial) Inject(b byte) bool {
	s.mu.Lock()
	slot, h := s.slot, s.handlers
	if slot == nil {
		s.mu.Unlock()
		s.dropped.Add(1)
		logx.Warn(logx.ComponentSim, "serial overrun, byte dropped", "byte", b)
		return false
	}
	slot[0] = b
	s.slot = nil
	s.mu.Unlock()

	s.rxBytes.Add(1)
	if h.RxComplete != nil {
		h.RxComplete()
	}
	s.raise()
	return true
}

// InjectError raises the line error handler
func (s *Serial) InjectError(err error) {
	if h := s.currentHandlers(); h.Error != nil {
		h.Error(err)
	}
	s.raise()
}

// RxArmed reports whether a receive slot is armed
func (s *Serial) RxArmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot != nil
}

// TxBytes returns the number of bytes written to the output stream
func (s *Serial) TxBytes() uint64 { return s.txBytes.Load() }

// RxBytes returns the number of bytes delivered to the driver
func (s *Serial) RxBytes() uint64 { return s.rxBytes.Load() }

// Dropped returns the number of bytes lost to overrun
func (s *Serial) Dropped() uint64 { return s.dropped.Load() }

// InputClosed reports whether the input stream has ended
func (s *Serial) InputClosed() bool { return s.rxEOF.Load() }

// Close stops the transmit worker. A receive worker blocked in Read exits
// once its stream returns.
func (s *Serial) Close() error {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}
