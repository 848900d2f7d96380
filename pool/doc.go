// Package pool
// Author: momentics <momentics@gmail.com>
//
// Reusable fixed-size byte slabs for transient I/O scratch space.
// A slab is borrowed for the duration of one syscall and returned immediately;
// see bytepool.go for the free list and default.go for the shared 64 KiB pool.
package pool
