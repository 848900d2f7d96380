// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import "github.com/momentics/hioload-core/api"

var (
	// ErrQueueClosed is returned by context-aware operations on a closed queue.
	ErrQueueClosed = api.ErrQueueClosed
)
