package pool

import "sync"

// ScratchSize is the overflow region used by scatter reads.
const ScratchSize = 64 * 1024

var (
	scratchOnce sync.Once
	scratch     *BytePool
)

// Scratch returns the process-wide pool of ScratchSize slabs so every
// connection buffer shares the same overflow memory.
func Scratch() *BytePool {
	scratchOnce.Do(func() {
		scratch = NewBytePool(ScratchSize, 64)
	})
	return scratch
}
