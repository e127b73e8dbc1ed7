// Command bsp-term is a line terminal for a board's console UART. Lines
// typed on stdin are sent with a carriage return; everything the board
// sends is copied to stdout.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"minibsp/host/serial"
	"minibsp/logx"
)

var (
	device   = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud     = flag.Int("baud", 115200, "Baud rate")
	parity   = flag.String("parity", "N", "Parity: N, E or O")
	logLevel = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	jsonLog  = flag.Bool("json", false, "Log as JSON")
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

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	if *parity != "" {
		cfg.Parity = strings.ToUpper(*parity)[0]
	}

	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()
	if err := port.Flush(); err != nil {
		logx.Warn(logx.ComponentTerm, "flush", "err", err)
	}
	logx.Info(logx.ComponentTerm, "connected", "device", *device, "baud", cfg.Baud)
	fmt.Println("Type lines to send, ':quit' to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go copyFromBoard(ctx, port, os.Stdout)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			logx.Error(logx.ComponentTerm, "stdin", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == ":quit" {
				return nil
			}
			if _, err := io.WriteString(port, line+"\r"); err != nil {
				return fmt.Errorf("write %s: %w", *device, err)
			}
			logx.Debug(logx.ComponentTerm, "sent", "bytes", len(line)+1)
		}
	}
}

// copyFromBoard copies port to w until ctx is done. A read timeout shows up
// as io.EOF and just polls ctx again.
func copyFromBoard(ctx context.Context, port io.Reader, w io.Writer) {
	buf := make([]byte, 256)
	for ctx.Err() == nil {
		n, err := port.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				logx.Error(logx.ComponentTerm, "stdout", "err", werr)
				return
			}
		}
		if err != nil && !errors.Is(err, io.EOF) {
			logx.Error(logx.ComponentTerm, "read", "err", err)
			return
		}
	}
}
