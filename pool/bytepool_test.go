package pool_test

import (
	"testing"

	"github.com/momentics/hioload-core/pool"
)

func TestBytePoolReuse(t *testing.T) {
	bp := pool.NewBytePool(128, 4)
	b1 := bp.Get()
	if len(b1) != 128 {
		t.Fatalf("expected 128-byte slab, got %d", len(b1))
	}
	bp.Put(b1)
	b2 := bp.Get()
	if &b1[0] != &b2[0] {
		t.Error("slab was not reused")
	}
	st := bp.Stats()
	if st["allocs"] != 1 || st["reuses"] != 1 {
		t.Errorf("unexpected stats: %v", st)
	}
}

func TestBytePoolIgnoresForeignSlabs(t *testing.T) {
	bp := pool.NewBytePool(64, 1)
	bp.Put(make([]byte, 32))
	if got := bp.Stats()["idle"]; got != 0 {
		t.Errorf("foreign slab kept, idle=%d", got)
	}
}

func TestBytePoolBoundedIdle(t *testing.T) {
	bp := pool.NewBytePool(16, 1)
	bp.Put(make([]byte, 16))
	bp.Put(make([]byte, 16))
	if got := bp.Stats()["idle"]; got != 1 {
		t.Errorf("expected 1 idle slab, got %d", got)
	}
}

func TestScratchIsShared(t *testing.T) {
	if pool.Scratch() != pool.Scratch() {
		t.Fatal("Scratch must return the same pool")
	}
	if pool.Scratch().Size() != pool.ScratchSize {
		t.Fatalf("unexpected scratch size %d", pool.Scratch().Size())
	}
}
