// Package logger is the process-wide leveled logger.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"debug", "info", "warn", "error", "fatal"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelFatal {
		return "info"
	}
	return levelNames[l]
}

// ParseLevel is case-insensitive and accepts "warning" for warn. Anything
// unrecognised is LevelInfo.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return LevelWarn
	}
	for i, n := range levelNames {
		if n == s {
			return Level(i)
		}
	}
	return LevelInfo
}

var (
	mu    sync.RWMutex
	std   = log.New(os.Stdout, "", 0)
	level = LevelInfo
)

// Init sets the global log level. Call early during startup.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return level.String()
}

// SetOutput redirects every subsequent line to w. CLI commands point it at
// stderr so their stdout stays machine-readable.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// Writer exposes the destination for adapters such as gin's access log.
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return std.Writer()
}

func logf(l Level, format string, v ...interface{}) {
	mu.RLock()
	skip := l < level
	mu.RUnlock()
	if skip {
		return
	}
	prefix := fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(l.String()))
	std.Printf(prefix+format, v...)
}

func Debugf(format string, v ...interface{}) { logf(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { logf(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { logf(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { logf(LevelError, format, v...) }

// Fatalf logs regardless of level and exits.
func Fatalf(format string, v ...interface{}) {
	logf(LevelFatal, format, v...)
	os.Exit(1)
}

func Warn(v string) { Warnf("%s", v) }
