// Package logx is the structured logging used by the host side of the
// project: the simulator, the serial bridge and the command line tools.
// Firmware code logs through core.SetDebugWriter instead; FirmwareWriter
// bridges that hook into slog when the firmware runs hosted.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Component names the subsystem a record comes from
type Component string

// Host components
const (
	ComponentSim      Component = "sim"
	ComponentSerial   Component = "serial"
	ComponentTerm     Component = "term"
	ComponentBSP      Component = "bsp"
	ComponentFirmware Component = "firmware"
)

// Format selects the handler used by the default logger
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

var (
	mu     sync.RWMutex
	level  = new(slog.LevelVar)
	logger *slog.Logger
)

func init() {
	level.Set(slog.LevelInfo)
	logger = NewLogger(os.Stderr, FormatText)
}

// NewLogger creates a logger writing to w that follows SetLevel
func NewLogger(w io.Writer, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetLogger replaces the default logger
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Logger returns the default logger
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLevel sets the minimum level of every logger built by NewLogger
func SetLevel(l slog.Level) {
	level.Set(l)
}

// Level returns the current minimum level
func Level() slog.Level {
	return level.Level()
}

// ParseLevel converts a flag value such as "debug" or "WARN" to a level
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

func log(l slog.Level, c Component, msg string, args []any) {
	lg := Logger()
	if !lg.Enabled(context.Background(), l) {
		return
	}
	lg.Log(context.Background(), l, msg, append([]any{"component", string(c)}, args...)...)
}

// Debug logs at debug level
func Debug(c Component, msg string, args ...any) { log(slog.LevelDebug, c, msg, args) }

// Info logs at info level
func Info(c Component, msg string, args ...any) { log(slog.LevelInfo, c, msg, args) }

// Warn logs at warning level
func Warn(c Component, msg string, args ...any) { log(slog.LevelWarn, c, msg, args) }

// Error logs at error level
func Error(c Component, msg string, args ...any) { log(slog.LevelError, c, msg, args) }

// FirmwareWriter returns a core.DebugWriter compatible function that sends
// firmware debug lines to the default logger at debug level
func FirmwareWriter() func(string) {
	return func(s string) {
		Debug(ComponentFirmware, strings.TrimRight(s, "\r\n"))
	}
}
