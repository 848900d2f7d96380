// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import (
	"fmt"
	"strings"
)

// Level is the integer-ordered log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Tag returns the fixed-width prefix written in front of every log line.
func (l Level) Tag() string {
	switch l {
	case LevelDebug:
		return "[debug]: "
	case LevelWarn:
		return "[warn] : "
	case LevelError:
		return "[error]: "
	default:
		return "[info] : "
	}
}

// ParseLevel accepts names ("warn") and their numeric form ("2").
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "0":
		return LevelDebug, nil
	case "info", "1", "":
		return LevelInfo, nil
	case "warn", "warning", "2":
		return LevelWarn, nil
	case "error", "3":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("parse level %q: %w", s, ErrInvalidArgument)
}

// QueueStats is a point-in-time view of a blocking queue.
type QueueStats struct {
	Len      int
	Cap      int
	Closed   bool
	Pushed   uint64
	Popped   uint64
	Rejected uint64
}

// LoggerStats aggregates counters of an async logger.
type LoggerStats struct {
	Async         bool
	Level         Level
	File          string
	LineCount     int
	Written       uint64
	Dropped       uint64
	SyncFallbacks uint64
	Rotations     uint64
	Queue         QueueStats
}
