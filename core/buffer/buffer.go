// File: core/buffer/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package buffer

import (
	"fmt"
	"io"

	"github.com/momentics/hioload-core/api"
	"github.com/momentics/hioload-core/pool"
)

// DefaultSize is the initial store size used when New is given size <= 0.
const DefaultSize = 1024

// Buffer is a growable byte store with read/write cursors.
type Buffer struct {
	buf      []byte
	readPos  int
	writePos int

	scratch api.BytePool // overflow slabs for ReadFd
}

// New allocates a buffer with initSize bytes of writable space.
func New(initSize int) *Buffer {
	if initSize <= 0 {
		initSize = DefaultSize
	}
	return &Buffer{
		buf:     make([]byte, initSize),
		scratch: pool.Scratch(),
	}
}

// ReadableBytes is writePos - readPos.
func (b *Buffer) ReadableBytes() int { return b.writePos - b.readPos }

// WritableBytes is len(store) - writePos.
func (b *Buffer) WritableBytes() int { return len(b.buf) - b.writePos }

// PrependableBytes is readPos.
func (b *Buffer) PrependableBytes() int { return b.readPos }

// Capacity returns the size of the backing store.
func (b *Buffer) Capacity() int { return len(b.buf) }

// Peek returns the readable region. The slice aliases the store and is only
// valid until the next mutating call.
func (b *Buffer) Peek() []byte { return b.buf[b.readPos:b.writePos] }

// BeginWrite returns the writable region for zero-copy fills; commit with HasWritten.
func (b *Buffer) BeginWrite() []byte { return b.buf[b.writePos:] }

// EnsureWritable guarantees WritableBytes() >= n afterwards.
func (b *Buffer) EnsureWritable(n int) {
	if n > b.WritableBytes() {
		b.makeSpace(n)
	}
	if b.WritableBytes() < n {
		panic(fmt.Sprintf("buffer: EnsureWritable(%d) left %d writable", n, b.WritableBytes()))
	}
}

// HasWritten commits n bytes previously written into BeginWrite().
func (b *Buffer) HasWritten(n int) {
	if n < 0 || n > b.WritableBytes() {
		panic(fmt.Sprintf("buffer: HasWritten(%d) exceeds writable %d", n, b.WritableBytes()))
	}
	b.writePos += n
}

// Append copies p after the readable region.
func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	b.EnsureWritable(len(p))
	copy(b.buf[b.writePos:], p)
	b.writePos += len(p)
}

// AppendString copies s after the readable region.
func (b *Buffer) AppendString(s string) {
	if len(s) == 0 {
		return
	}
	b.EnsureWritable(len(s))
	copy(b.buf[b.writePos:], s)
	b.writePos += len(s)
}

// AppendBuffer copies the readable region of other without consuming it.
func (b *Buffer) AppendBuffer(other *Buffer) {
	b.Append(other.Peek())
}

// Retrieve consumes n readable bytes.
func (b *Buffer) Retrieve(n int) {
	if n < 0 || n > b.ReadableBytes() {
		panic(fmt.Sprintf("buffer: Retrieve(%d) exceeds readable %d", n, b.ReadableBytes()))
	}
	b.readPos += n
}

// RetrieveUntil consumes bytes up to the absolute store offset end, which must
// lie in [readPos, writePos]. Offsets are obtained as readPos-relative indexes
// into Peek() plus ReadPos().
func (b *Buffer) RetrieveUntil(end int) {
	if end < b.readPos || end > b.writePos {
		panic(fmt.Sprintf("buffer: RetrieveUntil(%d) outside [%d,%d]", end, b.readPos, b.writePos))
	}
	b.Retrieve(end - b.readPos)
}

// ReadPos returns the absolute offset of Peek()[0].
func (b *Buffer) ReadPos() int { return b.readPos }

// RetrieveAll zeroes the store and resets both cursors.
func (b *Buffer) RetrieveAll() {
	clear(b.buf)
	b.readPos = 0
	b.writePos = 0
}

// RetrieveAllToStr returns a copy of the readable region, then RetrieveAll.
func (b *Buffer) RetrieveAllToStr() string {
	s := string(b.Peek())
	b.RetrieveAll()
	return s
}

// ReadFrom fills the buffer from r until EOF, growing as needed.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		if b.WritableBytes() == 0 {
			b.EnsureWritable(DefaultSize)
		}
		n, err := r.Read(b.BeginWrite())
		if n > 0 {
			b.writePos += n
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// WriteTo drains the readable region into w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for b.ReadableBytes() > 0 {
		n, err := w.Write(b.Peek())
		b.Retrieve(n)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// makeSpace compacts when the leading free space is enough, otherwise grows.
func (b *Buffer) makeSpace(n int) {
	if b.WritableBytes()+b.PrependableBytes() >= n {
		readable := b.ReadableBytes()
		copy(b.buf, b.buf[b.readPos:b.writePos])
		b.readPos = 0
		b.writePos = readable
		return
	}
	grown := make([]byte, b.writePos+n+1)
	copy(grown, b.buf[:b.writePos])
	b.buf = grown
}
