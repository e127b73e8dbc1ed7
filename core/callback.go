package core

import "sync/atomic"

// Callback is invoked from interrupt context when an event source fires.
// Anything the callback needs is captured by the closure. Callbacks should
// only record state (set a flag, bump a counter) and return.
type Callback func(status Status)

// callbackSlot holds at most one callback per event source. Registering a
// new callback replaces the old one; there is no subscriber list.
type callbackSlot struct {
	fn atomic.Pointer[Callback]
}

// set replaces the slot content; nil clears it
func (s *callbackSlot) set(cb Callback) {
	if cb == nil {
		s.fn.Store(nil)
		return
	}
	s.fn.Store(&cb)
}

// load returns the registered callback without clearing it
func (s *callbackSlot) load() Callback {
	if p := s.fn.Load(); p != nil {
		return *p
	}
	return nil
}

// take returns the registered callback and empties the slot, so a one-shot
// event source can only deliver it once
func (s *callbackSlot) take() Callback {
	if p := s.fn.Swap(nil); p != nil {
		return *p
	}
	return nil
}

// invoke calls cb if it is set
func invoke(cb Callback, status Status) {
	if cb != nil {
		cb(status)
	}
}
