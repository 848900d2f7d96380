// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for hioload-core components.

package benchmarks

import (
	"context"
	"testing"

	"github.com/momentics/hioload-core/core/buffer"
	"github.com/momentics/hioload-core/core/concurrency"
	"github.com/momentics/hioload-core/core/logging"
	"github.com/momentics/hioload-core/pool"
)

// BenchmarkScratchPool measures slab checkout from the shared scratch pool.
func BenchmarkScratchPool(b *testing.B) {
	p := pool.Scratch()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			p.Put(p.Get())
		}
	})
}

// BenchmarkBufferAppendRetrieve cycles a 512-byte message through a Buffer.
func BenchmarkBufferAppendRetrieve(b *testing.B) {
	buf := buffer.New(0)
	msg := make([]byte, 512)
	b.SetBytes(int64(len(msg)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Append(msg)
		buf.Retrieve(len(msg))
	}
}

// BenchmarkBlockQueueContended runs parallel producers against one consumer.
func BenchmarkBlockQueueContended(b *testing.B) {
	q := concurrency.NewBlockQueue[int](1024)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, ok := q.Pop(); !ok {
				return
			}
		}
	}()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			q.PushBack(i)
			i++
		}
	})
	b.StopTimer()
	q.Drain(context.Background())
	<-done
}

func benchLogger(b *testing.B, capacity int) {
	l := logging.New()
	if err := l.Init(logging.Config{Level: logging.LevelInfo, Path: b.TempDir(), Suffix: ".log", MaxQueueCapacity: capacity}); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			l.Infof("request id=%d status=%d bytes=%d", i, 200, 1024)
			i++
		}
	})
	b.StopTimer()
	if err := l.Close(context.Background()); err != nil {
		b.Fatal(err)
	}
}

// BenchmarkLoggerSync writes on the calling goroutines.
func BenchmarkLoggerSync(b *testing.B) { benchLogger(b, 0) }

// BenchmarkLoggerAsync hands lines to the writer goroutine.
func BenchmarkLoggerAsync(b *testing.B) { benchLogger(b, 4096) }

// BenchmarkLoggerFiltered measures the level gate alone.
func BenchmarkLoggerFiltered(b *testing.B) {
	l := logging.New()
	if err := l.Init(logging.Config{Level: logging.LevelError, Path: b.TempDir(), Suffix: ".log"}); err != nil {
		b.Fatal(err)
	}
	defer l.Close(context.Background())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Debugf("dropped %d", i)
	}
}
