package console

import (
	"errors"
	"testing"
)

// loopUART is a drivers.UART with a bounded transmit side and a scripted
// receive side
type loopUART struct {
	out   []byte
	limit int
	in    []byte
}

func (u *loopUART) Write(p []byte) (int, error) {
	n := 0
	for _, b := range p {
		if len(u.out) >= u.limit {
			return n, errors.New("full")
		}
		u.out = append(u.out, b)
		n++
	}
	return n, nil
}

func (u *loopUART) Read(p []byte) (int, error) {
	n := copy(p, u.in)
	u.in = u.in[n:]
	return n, nil
}

func (u *loopUART) Buffered() int {
	return len(u.in)
}

func TestPutchar(t *testing.T) {
	u := &loopUART{limit: 1}
	c := New(u)

	if got := c.Putchar('a'); got != 'a' {
		t.Errorf("Putchar('a') = %d, want %d", got, 'a')
	}
	if got := c.Putchar('b'); got != EOF {
		t.Errorf("Putchar on full transmitter = %d, want EOF", got)
	}
	if string(u.out) != "a" {
		t.Errorf("Output = %q", u.out)
	}
}

func TestGetchar(t *testing.T) {
	c := New(&loopUART{in: []byte{'x', 0xFF}})

	if got := c.Getchar(); got != 'x' {
		t.Errorf("Getchar = %d, want 'x'", got)
	}
	if got := c.Getchar(); got != 0xFF {
		t.Errorf("Getchar = %d, want 255 (distinct from EOF)", got)
	}
	if got := c.Getchar(); got != EOF {
		t.Errorf("Getchar on empty = %d, want EOF", got)
	}
}

func TestWriteStopsAtFirstFailure(t *testing.T) {
	u := &loopUART{limit: 3}
	c := New(u)

	n, err := c.Write([]byte("hello"))
	if n != 3 || !errors.Is(err, ErrIO) {
		t.Fatalf("Write = (%d, %v), want (3, ErrIO)", n, err)
	}
	if string(u.out) != "hel" {
		t.Errorf("Output = %q, want \"hel\"", u.out)
	}
}

func TestRead(t *testing.T) {
	c := New(&loopUART{in: []byte("abc")})

	buf := make([]byte, 2)
	n, err := c.Read(buf)
	if n != 2 || err != nil || string(buf) != "ab" {
		t.Fatalf("Read = (%d, %v, %q), want (2, nil, \"ab\")", n, err, buf)
	}

	n, err = c.Read(buf)
	if n != 1 || !errors.Is(err, ErrIO) {
		t.Errorf("Short read = (%d, %v), want (1, ErrIO)", n, err)
	}

	if n, err := c.Read(nil); n != 0 || err != nil {
		t.Errorf("Empty read = (%d, %v), want (0, nil)", n, err)
	}
}

func TestPrintAndPrintf(t *testing.T) {
	u := &loopUART{limit: 64}
	c := New(u)

	if err := c.Print("\n\rHello world!\n\r"); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if _, err := c.Printf("mode=%d", 1); err != nil {
		t.Fatalf("Printf failed: %v", err)
	}
	if string(u.out) != "\n\rHello world!\n\rmode=1" {
		t.Errorf("Output = %q", u.out)
	}

	small := New(&loopUART{limit: 2})
	if err := small.Print("abc"); !errors.Is(err, ErrIO) {
		t.Errorf("Print on full = %v, want ErrIO", err)
	}
}
