// Package logger is a small leveled console logger with colored output.
package logger

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu    sync.Mutex
	out   io.Writer = color.Output
	debug bool

	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	debugColor   = color.New(color.FgHiBlack)
)

// SetOutput redirects log output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// SetDebug enables or disables Debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = enabled
}

func write(c *color.Color, level, msg string) {
	mu.Lock()
	defer mu.Unlock()
	ts := time.Now().Format("2006-01-02 15:04:05")
	_, _ = c.Fprintf(out, "%s [%s] %s\n", ts, level, msg)
}

// Info logs a general message.
func Info(format string, args ...any) {
	write(infoColor, "INFO", fmt.Sprintf(format, args...))
}

// Success logs a completed milestone such as server start.
func Success(format string, args ...any) {
	write(successColor, "OK", fmt.Sprintf(format, args...))
}

// Warn logs a recoverable problem.
func Warn(format string, args ...any) {
	write(warnColor, "WARN", fmt.Sprintf(format, args...))
}

// Error logs a failure.
func Error(format string, args ...any) {
	write(errorColor, "ERROR", fmt.Sprintf(format, args...))
}

// Debug logs only when debug output is enabled.
func Debug(format string, args ...any) {
	mu.Lock()
	enabled := debug
	mu.Unlock()
	if !enabled {
		return
	}
	write(debugColor, "DEBUG", fmt.Sprintf(format, args...))
}

// Request logs a finished HTTP request, colored by status class.
func Request(requestID, method, path string, status int, d time.Duration) {
	c := successColor
	switch {
	case status >= 500:
		c = errorColor
	case status >= 400:
		c = warnColor
	case status >= 300:
		c = infoColor
	}
	write(c, "HTTP", fmt.Sprintf("%s %-6s %s %d %s", requestID, method, path, status, formatDuration(d)))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
