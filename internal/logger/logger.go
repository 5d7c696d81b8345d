// Package logger provides process-wide logging for almalister.
// Messages go to stderr through a zap console logger. Debug messages and
// section headers are only printed when verbose mode is enabled via the
// --verbose flag.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	output io.Writer = os.Stderr
	sugar            = build(os.Stderr)
)

func build(w io.Writer) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	return level.Enabled(zapcore.DebugLevel)
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	sugar = build(w)
}

// Output returns the current output writer.
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

// L returns the underlying zap logger for structured fields.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	L().Debugf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	L().Debugf("=== %s ===", name)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	L().Infof(format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	L().Warnf(format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	L().Errorf(format, args...)
}
