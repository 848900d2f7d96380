//go:build !linux
// +build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package buffer

import "github.com/momentics/hioload-core/api"

// ReadFd is only available on Linux; use ReadFrom elsewhere.
func (b *Buffer) ReadFd(fd int) (int, error) { return -1, api.ErrNotSupported }

// WriteFd is only available on Linux; use WriteTo elsewhere.
func (b *Buffer) WriteFd(fd int) (int, error) { return -1, api.ErrNotSupported }
