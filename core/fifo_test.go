package core

import (
	"bytes"
	"testing"
)

func TestFIFOPushPop(t *testing.T) {
	f := NewFIFO(4)

	if !f.Empty() || f.BytesAvailable() != 0 || f.SpaceAvailable() != 4 {
		t.Fatalf("New FIFO not empty: avail=%d space=%d", f.BytesAvailable(), f.SpaceAvailable())
	}
	if _, ok := f.TryPop(); ok {
		t.Fatal("TryPop on empty FIFO returned data")
	}

	for i := byte(1); i <= 4; i++ {
		if !f.TryPush(i) {
			t.Fatalf("TryPush(%d) rejected with space %d", i, f.SpaceAvailable())
		}
	}
	if !f.Full() {
		t.Fatal("Expected FIFO to be full")
	}
	if f.TryPush(99) {
		t.Fatal("TryPush accepted a byte into a full FIFO")
	}

	for i := byte(1); i <= 4; i++ {
		b, ok := f.TryPop()
		if !ok || b != i {
			t.Fatalf("TryPop = (%d, %v), want (%d, true)", b, ok, i)
		}
	}
	if !f.Empty() {
		t.Errorf("Expected empty FIFO, got %d bytes", f.BytesAvailable())
	}
}

func TestFIFOWraparound(t *testing.T) {
	// Odd capacity and many laps exercise the counter wrap
	f := NewFIFO(3)
	next := byte(0)
	want := byte(0)

	for lap := 0; lap < 1000; lap++ {
		n := lap%3 + 1
		for i := 0; i < n; i++ {
			if !f.TryPush(next) {
				t.Fatalf("Lap %d: push rejected with %d bytes buffered", lap, f.BytesAvailable())
			}
			next++
		}
		if f.BytesAvailable() != n {
			t.Fatalf("Lap %d: BytesAvailable = %d, want %d", lap, f.BytesAvailable(), n)
		}
		if f.BytesAvailable()+f.SpaceAvailable() != f.Cap() {
			t.Fatalf("Lap %d: count %d + space %d != cap", lap, f.BytesAvailable(), f.SpaceAvailable())
		}
		for i := 0; i < n; i++ {
			b, ok := f.TryPop()
			if !ok || b != want {
				t.Fatalf("Lap %d: TryPop = (%d, %v), want %d", lap, b, ok, want)
			}
			want++
		}
	}
}

func TestFIFOFullLeavesContent(t *testing.T) {
	f := NewFIFO(2)
	f.TryPush('a')
	f.TryPush('b')
	f.TryPush('c')

	var got []byte
	for {
		b, ok := f.TryPop()
		if !ok {
			break
		}
		got = append(got, b)
	}
	if string(got) != "ab" {
		t.Errorf("Content after rejected push = %q, want %q", got, "ab")
	}
}

func TestFIFOReadRun(t *testing.T) {
	f := NewFIFO(4)
	if run := f.ReadRun(); run != nil {
		t.Fatalf("ReadRun on empty FIFO = %v", run)
	}

	for _, b := range []byte("abc") {
		f.TryPush(b)
	}
	f.Discard(2)
	for _, b := range []byte("def") {
		f.TryPush(b)
	}

	// Storage is now [e f c d] with the read index at c
	run := f.ReadRun()
	if !bytes.Equal(run, []byte("cd")) {
		t.Fatalf("First run = %q, want %q", run, "cd")
	}
	f.Discard(len(run))

	run = f.ReadRun()
	if !bytes.Equal(run, []byte("ef")) {
		t.Fatalf("Second run = %q, want %q", run, "ef")
	}
	f.Discard(len(run))
	if !f.Empty() {
		t.Errorf("Expected empty FIFO after draining runs")
	}
}

func TestFIFODiscardClamps(t *testing.T) {
	f := NewFIFO(4)
	f.TryPush(1)
	f.TryPush(2)
	f.Discard(10)
	if !f.Empty() {
		t.Fatalf("Discard past the fill level left %d bytes", f.BytesAvailable())
	}
	f.Discard(1)
	if f.BytesAvailable() != 0 {
		t.Errorf("Discard on empty FIFO changed the fill level to %d", f.BytesAvailable())
	}
}

func TestFIFOWriteSlotCommit(t *testing.T) {
	f := NewFIFO(2)

	for _, b := range []byte("xy") {
		slot := f.WriteSlot()
		if len(slot) != 1 {
			t.Fatalf("WriteSlot length = %d, want 1", len(slot))
		}
		slot[0] = b
		f.Commit(1)
	}
	if f.WriteSlot() != nil {
		t.Fatal("WriteSlot on full FIFO should be nil")
	}
	f.Commit(1)
	if f.BytesAvailable() != 2 {
		t.Fatalf("Commit on full FIFO changed the fill level to %d", f.BytesAvailable())
	}

	b, _ := f.TryPop()
	if b != 'x' {
		t.Errorf("First byte = %q, want 'x'", b)
	}
	f.WriteSlot()[0] = 'z'
	f.Commit(1)
	b, _ = f.TryPop()
	c, _ := f.TryPop()
	if b != 'y' || c != 'z' {
		t.Errorf("Bytes after wrap = %q %q, want 'y' 'z'", b, c)
	}
}

func TestFIFOReset(t *testing.T) {
	f := NewFIFO(4)
	f.TryPush(1)
	f.TryPush(2)
	f.Reset()
	if !f.Empty() || f.SpaceAvailable() != 4 {
		t.Errorf("Reset left avail=%d space=%d", f.BytesAvailable(), f.SpaceAvailable())
	}
}

func TestNewFIFOZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewFIFO(0) did not panic")
		}
	}()
	NewFIFO(0)
}
