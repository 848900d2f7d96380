// File: core/buffer/fd_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Descriptor I/O via readv(2)/write(2).

package buffer

import (
	"errors"

	"github.com/momentics/hioload-core/api"
	"golang.org/x/sys/unix"
)

var _ api.FdReadWriter = (*Buffer)(nil)

// ReadFd reads whatever fd has ready. The kernel fills the writable region
// first and spills into a 64 KiB scratch slab, so one call is not truncated to
// the current free space. Returns the byte count (0 on EOF) or -1 and an
// *api.IOError.
func (b *Buffer) ReadFd(fd int) (int, error) {
	extra := b.scratch.Get()
	defer b.scratch.Put(extra)

	writable := b.WritableBytes()
	n, err := unix.Readv(fd, [][]byte{b.BeginWrite(), extra})
	if err != nil {
		return -1, ioError("readv", fd, err)
	}
	if n <= writable {
		b.writePos += n
	} else {
		b.writePos = len(b.buf)
		b.Append(extra[:n-writable])
	}
	return n, nil
}

// WriteFd writes the readable region in one call and consumes what the kernel
// accepted. Partial writes leave the remainder readable.
func (b *Buffer) WriteFd(fd int) (int, error) {
	n, err := unix.Write(fd, b.Peek())
	if err != nil {
		return -1, ioError("write", fd, err)
	}
	b.Retrieve(n)
	return n, nil
}

func ioError(op string, fd int, err error) error {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return api.NewIOError(op, fd, errno)
	}
	return err
}
