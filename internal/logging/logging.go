// Package logging builds the named zap loggers used across the service.
package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// Setup configures the process-wide base logger. level is one of
// debug, info, warn, error; unknown values fall back to info.
func Setup(level string, debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		lvl = zapcore.InfoLevel
	}
	if debug && lvl > zapcore.DebugLevel {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	base = l
	mu.Unlock()
	return nil
}

// New returns a logger named after the component, e.g. "runs" or "wiki".
func New(name string) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base.Named(name).Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}
