// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import (
	"context"
	"time"
)

// BytePool hands out reusable fixed-size slabs.
type BytePool interface {
	Get() []byte
	Put([]byte)
}

// FdReadWriter moves bytes between a buffer and a file descriptor.
// n is -1 on failure.
type FdReadWriter interface {
	ReadFd(fd int) (n int, err error)
	WriteFd(fd int) (n int, err error)
}

// Queue is a bounded blocking queue shared by producers and consumers.
type Queue[T any] interface {
	PushBack(item T) bool
	PushFront(item T) bool
	Pop() (T, bool)
	PopTimeout(timeout time.Duration) (T, bool)
	Close()
	Len() int
	Cap() int
	Stats() QueueStats
}

// LineLogger accepts leveled printf-style lines.
type LineLogger interface {
	Write(level Level, format string, args ...any)
	Flush()
	Close(ctx context.Context) error
}

// Debug exposes runtime introspection.
type Debug interface {
	// DumpState emits a snapshot of system state for diagnostics.
	DumpState() map[string]any

	// RegisterProbe dynamically registers new debug probes.
	RegisterProbe(name string, fn func() any)
}
