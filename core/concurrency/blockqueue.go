// File: core/concurrency/blockqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BlockQueue is a capacity-limited double-ended queue with blocking push/pop.
// All state is guarded by one mutex; producers and consumers park on separate
// condition variables.

package concurrency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/momentics/hioload-core/api"
)

var _ api.Queue[string] = (*BlockQueue[string])(nil)

// BlockQueue holds at most Cap() items. Items pushed with PushBack leave in
// FIFO order; items pushed with PushFront jump ahead of everything queued.
type BlockQueue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond // consumers
	notFull  *sync.Cond // producers
	drained  *sync.Cond // Drain callers

	head     []T          // PushFront items, front is the last element
	tail     *queue.Queue // PushBack items
	capacity int
	closed   bool

	pushed   uint64
	popped   uint64
	rejected uint64
}

// NewBlockQueue panics when capacity <= 0.
func NewBlockQueue[T any](capacity int) *BlockQueue[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("concurrency: queue capacity must be positive, got %d", capacity))
	}
	q := &BlockQueue[T]{
		tail:     queue.New(),
		capacity: capacity,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	q.drained = sync.NewCond(&q.mu)
	return q
}

func (q *BlockQueue[T]) lenLocked() int { return len(q.head) + q.tail.Length() }

// waitSpaceLocked parks the producer until there is room or the queue closes.
// Returns false when the item must be rejected.
func (q *BlockQueue[T]) waitSpaceLocked() bool {
	for q.lenLocked() >= q.capacity && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		q.rejected++
		return false
	}
	return true
}

// PushBack blocks while the queue is full. It returns false if the queue was
// closed before the item could be inserted; a closed queue never grows.
func (q *BlockQueue[T]) PushBack(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.waitSpaceLocked() {
		return false
	}
	q.tail.Add(item)
	q.pushed++
	q.notEmpty.Signal()
	return true
}

// PushFront is PushBack at the head of the queue.
func (q *BlockQueue[T]) PushFront(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.waitSpaceLocked() {
		return false
	}
	q.head = append(q.head, item)
	q.pushed++
	q.notEmpty.Signal()
	return true
}

// TryPushBack inserts without waiting. False when full or closed.
func (q *BlockQueue[T]) TryPushBack(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.lenLocked() >= q.capacity {
		q.rejected++
		return false
	}
	q.tail.Add(item)
	q.pushed++
	q.notEmpty.Signal()
	return true
}

func (q *BlockQueue[T]) popLocked() T {
	var item T
	if n := len(q.head); n > 0 {
		item = q.head[n-1]
		var zero T
		q.head[n-1] = zero
		q.head = q.head[:n-1]
	} else {
		item = q.tail.Remove().(T)
	}
	q.popped++
	q.notFull.Signal()
	if q.lenLocked() == 0 {
		q.drained.Broadcast()
	}
	return item
}

// Pop blocks until an item is available. It returns false only when the queue
// is closed and empty.
func (q *BlockQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.lenLocked() == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.lenLocked() == 0 {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// PopTimeout is Pop with a deadline. It returns false when the timeout expires
// with the queue still empty, or when the queue is closed while empty.
func (q *BlockQueue[T]) PopTimeout(timeout time.Duration) (T, bool) {
	var zero T
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.lenLocked() == 0 && !q.closed {
		deadline := time.Now().Add(timeout)
		timer := time.AfterFunc(timeout, func() {
			q.mu.Lock()
			q.notEmpty.Broadcast()
			q.mu.Unlock()
		})
		defer timer.Stop()
		for q.lenLocked() == 0 && !q.closed {
			if !time.Now().Before(deadline) {
				return zero, false
			}
			q.notEmpty.Wait()
		}
	}
	if q.lenLocked() == 0 {
		return zero, false
	}
	return q.popLocked(), true
}

// PopContext is Pop bounded by ctx. It returns ErrQueueClosed when the queue
// is closed and empty, or ctx.Err() on cancellation.
func (q *BlockQueue[T]) PopContext(ctx context.Context) (T, error) {
	var zero T
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.lenLocked() == 0 && !q.closed {
		stop := context.AfterFunc(ctx, func() {
			q.mu.Lock()
			q.notEmpty.Broadcast()
			q.mu.Unlock()
		})
		defer stop()
		for q.lenLocked() == 0 && !q.closed {
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			q.notEmpty.Wait()
		}
	}
	if q.lenLocked() == 0 {
		return zero, ErrQueueClosed
	}
	return q.popLocked(), nil
}

// Close discards queued items, marks the queue closed and wakes every waiter.
// Calling it again is a no-op.
func (q *BlockQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.clearLocked()
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
	q.drained.Broadcast()
}

// Drain waits until consumers have emptied the queue, then closes it. If ctx
// ends first the queue is closed anyway and ctx.Err() is returned; whatever
// was still queued is discarded.
func (q *BlockQueue[T]) Drain(ctx context.Context) error {
	q.mu.Lock()
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.drained.Broadcast()
		q.mu.Unlock()
	})
	var err error
	for q.lenLocked() > 0 && !q.closed {
		if err = ctx.Err(); err != nil {
			break
		}
		q.notEmpty.Signal()
		q.drained.Wait()
	}
	q.mu.Unlock()
	stop()
	q.Close()
	return err
}

// Flush wakes one consumer without changing state.
func (q *BlockQueue[T]) Flush() {
	q.notEmpty.Signal()
}

func (q *BlockQueue[T]) clearLocked() {
	q.head = nil
	q.tail = queue.New()
	q.notFull.Broadcast()
	q.drained.Broadcast()
}

// Clear drops every queued item.
func (q *BlockQueue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.clearLocked()
}

// Empty reports whether no items are queued.
func (q *BlockQueue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked() == 0
}

// Full reports whether Len() >= Cap().
func (q *BlockQueue[T]) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked() >= q.capacity
}

// Len returns the number of queued items.
func (q *BlockQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

// Cap returns the fixed capacity.
func (q *BlockQueue[T]) Cap() int { return q.capacity }

// Closed reports whether Close has been called.
func (q *BlockQueue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Front returns the next item Pop would return, without removing it.
func (q *BlockQueue[T]) Front() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n := len(q.head); n > 0 {
		return q.head[n-1], true
	}
	if q.tail.Length() > 0 {
		return q.tail.Peek().(T), true
	}
	var zero T
	return zero, false
}

// Back returns the most recently pushed-back item (or the oldest PushFront
// item when nothing was pushed back).
func (q *BlockQueue[T]) Back() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.tail.Length() > 0 {
		return q.tail.Get(-1).(T), true
	}
	if len(q.head) > 0 {
		return q.head[0], true
	}
	var zero T
	return zero, false
}

// Stats returns a snapshot for metrics and debug probes.
func (q *BlockQueue[T]) Stats() api.QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return api.QueueStats{
		Len:      q.lenLocked(),
		Cap:      q.capacity,
		Closed:   q.closed,
		Pushed:   q.pushed,
		Popped:   q.popped,
		Rejected: q.rejected,
	}
}
