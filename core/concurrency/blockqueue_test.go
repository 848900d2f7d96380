package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockQueue_FIFO(t *testing.T) {
	q := NewBlockQueue[int](8)
	for _, v := range []int{1, 2, 3} {
		require.True(t, q.PushBack(v))
	}
	for _, want := range []int{1, 2, 3} {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.True(t, q.Empty())
}

func TestBlockQueue_PushFrontJumpsAhead(t *testing.T) {
	q := NewBlockQueue[string](8)
	q.PushBack("b1")
	q.PushBack("b2")
	q.PushFront("f1")
	q.PushFront("f2")

	front, ok := q.Front()
	require.True(t, ok)
	assert.Equal(t, "f2", front)
	back, ok := q.Back()
	require.True(t, ok)
	assert.Equal(t, "b2", back)

	var got []string
	for !q.Empty() {
		v, _ := q.Pop()
		got = append(got, v)
	}
	assert.Equal(t, []string{"f2", "f1", "b1", "b2"}, got)
}

func TestBlockQueue_BackFallsBackToHead(t *testing.T) {
	q := NewBlockQueue[int](4)
	q.PushFront(1)
	q.PushFront(2)
	back, ok := q.Back()
	require.True(t, ok)
	assert.Equal(t, 1, back)
}

func TestBlockQueue_FrontBackEmpty(t *testing.T) {
	q := NewBlockQueue[int](1)
	_, ok := q.Front()
	assert.False(t, ok)
	_, ok = q.Back()
	assert.False(t, ok)
}

func TestBlockQueue_ZeroCapacityPanics(t *testing.T) {
	assert.Panics(t, func() { NewBlockQueue[int](0) })
	assert.Panics(t, func() { NewBlockQueue[int](-3) })
}

func TestBlockQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewBlockQueue[int](1)
	done := make(chan int, 1)
	go func() {
		v, ok := q.Pop()
		if ok {
			done <- v
		}
	}()

	select {
	case <-done:
		t.Fatal("Pop returned on an empty open queue")
	case <-time.After(50 * time.Millisecond):
	}

	pushedAt := time.Now()
	q.PushBack(7)
	select {
	case v := <-done:
		assert.Equal(t, 7, v)
		assert.Less(t, time.Since(pushedAt), time.Second)
	case <-time.After(2 * time.Second):
		t.Fatal("Pop was not released by PushBack")
	}
}

func TestBlockQueue_PopReleasedByPushFront(t *testing.T) {
	q := NewBlockQueue[int](1)
	done := make(chan int, 1)
	go func() {
		v, _ := q.Pop()
		done <- v
	}()
	time.Sleep(20 * time.Millisecond)
	q.PushFront(9)
	select {
	case v := <-done:
		assert.Equal(t, 9, v)
	case <-time.After(2 * time.Second):
		t.Fatal("Pop was not released by PushFront")
	}
}

func TestBlockQueue_PopReleasedByClose(t *testing.T) {
	q := NewBlockQueue[int](1)
	done := make(chan bool, 1)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	q.Close()
	select {
	case ok := <-done:
		assert.False(t, ok, "Pop on closed empty queue must fail")
	case <-time.After(2 * time.Second):
		t.Fatal("Pop was not released by Close")
	}
}

func TestBlockQueue_PopTimeout(t *testing.T) {
	q := NewBlockQueue[int](1)
	start := time.Now()
	_, ok := q.PopTimeout(time.Second)
	elapsed := time.Since(start)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond)
	assert.Less(t, elapsed, 3*time.Second)
}

func TestBlockQueue_PopTimeoutGetsItem(t *testing.T) {
	q := NewBlockQueue[int](1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		q.PushBack(5)
	}()
	v, ok := q.PopTimeout(2 * time.Second)
	require.True(t, ok)
	assert.Equal(t, 5, v)
}

func TestBlockQueue_PopTimeoutClosedEarly(t *testing.T) {
	q := NewBlockQueue[int](1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Close()
	}()
	start := time.Now()
	_, ok := q.PopTimeout(5 * time.Second)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBlockQueue_PopContext(t *testing.T) {
	q := NewBlockQueue[int](1)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := q.PopContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	q.PushBack(1)
	v, err := q.PopContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	q.Close()
	_, err = q.PopContext(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestBlockQueue_CloseIdempotent(t *testing.T) {
	q := NewBlockQueue[int](2)
	q.PushBack(1)
	q.Close()
	q.Close()
	assert.True(t, q.Closed())
	assert.Zero(t, q.Len(), "Close must discard queued items")
}

func TestBlockQueue_PushAfterCloseRejected(t *testing.T) {
	q := NewBlockQueue[int](2)
	q.Close()
	assert.False(t, q.PushBack(1))
	assert.False(t, q.PushFront(1))
	assert.False(t, q.TryPushBack(1))
	assert.Zero(t, q.Len())
	assert.EqualValues(t, 3, q.Stats().Rejected)
}

func TestBlockQueue_BlockedPushReleasedByClose(t *testing.T) {
	q := NewBlockQueue[int](1)
	q.PushBack(1)
	done := make(chan bool, 1)
	go func() { done <- q.PushBack(2) }()
	time.Sleep(20 * time.Millisecond)
	q.Close()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked producer not released by Close")
	}
}

func TestBlockQueue_CapacityTwoScenario(t *testing.T) {
	q := NewBlockQueue[string](2)
	require.True(t, q.PushBack("A"))
	require.True(t, q.PushBack("B"))
	assert.True(t, q.Full())

	var pushedC atomic.Bool
	done := make(chan struct{})
	go func() {
		q.PushBack("C")
		pushedC.Store(true)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, pushedC.Load(), "push of C must block while full")

	first, ok := q.Pop()
	require.True(t, ok)
	<-done

	second, _ := q.Pop()
	third, _ := q.Pop()
	assert.Equal(t, []string{"A", "B", "C"}, []string{first, second, third})
}

func TestBlockQueue_TryPushBackFull(t *testing.T) {
	q := NewBlockQueue[int](1)
	assert.True(t, q.TryPushBack(1))
	assert.False(t, q.TryPushBack(2))
	assert.Equal(t, 1, q.Len())
}

func TestBlockQueue_Drain(t *testing.T) {
	q := NewBlockQueue[int](16)
	for i := 0; i < 10; i++ {
		q.PushBack(i)
	}
	var got []int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			v, ok := q.Pop()
			if !ok {
				return
			}
			got = append(got, v)
		}
	}()
	require.NoError(t, q.Drain(context.Background()))
	wg.Wait()
	assert.Len(t, got, 10)
	assert.True(t, q.Closed())
}

func TestBlockQueue_DrainTimeout(t *testing.T) {
	q := NewBlockQueue[int](4)
	q.PushBack(1)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := q.Drain(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, q.Closed())
}

func TestBlockQueue_ClearAndStats(t *testing.T) {
	q := NewBlockQueue[int](4)
	q.PushBack(1)
	q.PushFront(2)
	q.Pop()
	st := q.Stats()
	assert.Equal(t, 1, st.Len)
	assert.Equal(t, 4, st.Cap)
	assert.EqualValues(t, 2, st.Pushed)
	assert.EqualValues(t, 1, st.Popped)
	q.Clear()
	assert.True(t, q.Empty())
	assert.False(t, q.Full())
	assert.Equal(t, 4, q.Cap())
}

func TestBlockQueue_ManyProducersOneConsumer(t *testing.T) {
	q := NewBlockQueue[int](32)
	const producers, perProducer = 8, 2000
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.PushBack(base*perProducer + i + 1)
			}
		}(p)
	}

	var sum, count int64
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		for {
			v, ok := q.Pop()
			if !ok {
				return
			}
			sum += int64(v)
			count++
		}
	}()

	wg.Wait()
	require.NoError(t, q.Drain(context.Background()))
	<-consumed

	total := int64(producers * perProducer)
	assert.Equal(t, total, count)
	assert.Equal(t, total*(total+1)/2, sum)
}
