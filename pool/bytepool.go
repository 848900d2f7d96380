// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync/atomic"

	"github.com/momentics/hioload-core/api"
)

var _ api.BytePool = (*BytePool)(nil)

// BytePool hands out slabs of exactly Size() bytes. Idle slabs are kept in a
// bounded channel; when it is empty a fresh slab is allocated, and when it is
// full a returned slab is left to the GC.
type BytePool struct {
	size  int
	slabs chan []byte

	allocs atomic.Int64
	reuses atomic.Int64
}

// NewBytePool creates a pool of size-byte slabs keeping at most idle of them.
func NewBytePool(size, idle int) *BytePool {
	if size <= 0 {
		panic("pool: slab size must be positive")
	}
	if idle < 0 {
		idle = 0
	}
	return &BytePool{
		size:  size,
		slabs: make(chan []byte, idle),
	}
}

// Size returns the length of every slab.
func (p *BytePool) Size() int { return p.size }

// Get returns a slab of Size() bytes. Contents are unspecified.
func (p *BytePool) Get() []byte {
	select {
	case b := <-p.slabs:
		p.reuses.Add(1)
		return b
	default:
		p.allocs.Add(1)
		return make([]byte, p.size)
	}
}

// Put returns a slab. Slabs of a foreign size are ignored.
func (p *BytePool) Put(b []byte) {
	if cap(b) != p.size {
		return
	}
	select {
	case p.slabs <- b[:p.size]:
	default:
	}
}

// Stats exposes allocation accounting for debug probes.
func (p *BytePool) Stats() map[string]int64 {
	return map[string]int64{
		"slab_size": int64(p.size),
		"idle":      int64(len(p.slabs)),
		"allocs":    p.allocs.Load(),
		"reuses":    p.reuses.Load(),
	}
}
