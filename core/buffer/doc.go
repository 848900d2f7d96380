// Package buffer
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Growable byte buffer with independent read and write cursors, sitting
// between socket I/O and message framing.
//
//	+-------------------+------------------+------------------+
//	| prependable bytes |  readable bytes  |  writable bytes  |
//	|                   |     (CONTENT)    |                  |
//	+-------------------+------------------+------------------+
//	0      <=      readPos     <=     writePos     <=     len(buf)
//
// A Buffer is owned by one connection and is not safe for concurrent use.
package buffer
