package core

import (
	"errors"
	"testing"
)

func TestButtonToggles(t *testing.T) {
	gpio := newFakeGPIO()
	idle := NewIdle(&fakeCPU{})
	btn := NewButton(idle)

	if err := btn.Attach(gpio, 13, EdgeFalling); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if gpio.edges[13] != EdgeFalling {
		t.Fatalf("Pin configured for %v edge, want falling", gpio.edges[13])
	}

	calls := 0
	btn.RegisterCallback(func(s Status) {
		if s != StatusOK {
			t.Errorf("Callback status = %v", s)
		}
		calls++
	})

	gpio.Edge(13)
	if !btn.Pressed() || calls != 1 {
		t.Fatalf("After one edge: pressed=%v calls=%d", btn.Pressed(), calls)
	}
	gpio.Edge(13)
	if btn.Pressed() || calls != 2 {
		t.Fatalf("After two edges: pressed=%v calls=%d", btn.Pressed(), calls)
	}
	if btn.Edges() != 2 || idle.Pending() != 2 {
		t.Errorf("edges=%d pending=%d, want 2 2", btn.Edges(), idle.Pending())
	}

	btn.RegisterCallback(nil)
	gpio.Edge(13)
	if calls != 2 {
		t.Errorf("Unregistered callback still invoked")
	}
}

func TestButtonReplaceCallback(t *testing.T) {
	gpio := newFakeGPIO()
	btn := NewButton(nil)
	btn.Attach(gpio, 2, EdgeBoth)

	first, second := 0, 0
	btn.RegisterCallback(func(Status) { first++ })
	btn.RegisterCallback(func(Status) { second++ })
	gpio.Edge(2)

	if first != 0 || second != 1 {
		t.Errorf("first=%d second=%d, want only the latest callback", first, second)
	}
}

func TestButtonAttachFailureHalts(t *testing.T) {
	halts := captureHalts(t)
	gpio := newFakeGPIO()
	gpio.fail, gpio.failPin = true, 5

	err := NewButton(nil).Attach(gpio, 5, EdgeFalling)
	if !errors.Is(err, errFake) || len(*halts) != 1 {
		t.Errorf("Attach = %v with %d halts, want hardware error and one halt", err, len(*halts))
	}
}
