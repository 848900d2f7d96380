// File: core/logging/default.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Process-wide logger for code that needs ambient logging. Components that
// can take a *Logger should be handed one explicitly instead.

package logging

import (
	"sync"

	"github.com/momentics/hioload-core/api"
)

var (
	defaultMu     sync.Mutex
	defaultLogger *Logger
)

// Default returns the process-wide logger, creating an uninitialized one on
// first use. Lines are discarded until someone calls Init on it.
func Default() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New()
	}
	return defaultLogger
}

// SetDefault installs l and returns the previous default, which the caller
// remains responsible for closing.
func SetDefault(l *Logger) *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultLogger
	defaultLogger = l
	return prev
}

// Package-level shortcuts on Default().
func Debugf(format string, args ...any) { Default().Write(api.LevelDebug, format, args...) }
func Infof(format string, args ...any)  { Default().Write(api.LevelInfo, format, args...) }
func Warnf(format string, args ...any)  { Default().Write(api.LevelWarn, format, args...) }
func Errorf(format string, args ...any) { Default().Write(api.LevelError, format, args...) }
