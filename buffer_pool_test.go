package serial

import "testing"

func TestBufferPoolRoundTrip(t *testing.T) {
	bp := NewBufferPool(64)

	buf := bp.Get()
	if len(buf) != 64 {
		t.Fatalf("len = %d, want 64", len(buf))
	}
	buf[0] = 0xff
	bp.Put(buf)

	again := bp.Get()
	if again[0] != 0 {
		t.Fatal("pooled buffer not cleared on Put")
	}

	stats := bp.Stats()
	if stats.Gets != 2 || stats.Puts != 1 {
		t.Fatalf("stats = %+v, want Gets=2 Puts=1", stats)
	}
}

func TestBufferPoolDropsWrongSize(t *testing.T) {
	bp := NewBufferPool(64)

	bp.Put(make([]byte, 32))
	if stats := bp.Stats(); stats.Puts != 0 {
		t.Fatalf("Puts = %d, want 0", stats.Puts)
	}
}

func TestBufferPoolScratch(t *testing.T) {
	bp := NewBufferPool(64)

	small, release := bp.Scratch(16)
	if len(small) != 16 {
		t.Fatalf("len = %d, want 16", len(small))
	}
	release()
	if stats := bp.Stats(); stats.Gets != 1 || stats.Puts != 1 {
		t.Fatalf("stats = %+v, want pooled scratch to round-trip", stats)
	}

	big, release := bp.Scratch(1024)
	if len(big) != 1024 {
		t.Fatalf("len = %d, want 1024", len(big))
	}
	release()
	if stats := bp.Stats(); stats.Gets != 1 {
		t.Fatalf("Gets = %d, oversized scratch must bypass the pool", stats.Gets)
	}
}

func TestPoolStatsHitRatio(t *testing.T) {
	ps := PoolStats{Gets: 10, Creates: 2}
	if got := ps.HitRatio(); got != 0.8 {
		t.Fatalf("HitRatio = %v, want 0.8", got)
	}
	if got := (PoolStats{}).HitRatio(); got != 0.0 {
		t.Fatalf("HitRatio on empty stats = %v, want 0", got)
	}
}

func BenchmarkBufferPoolScratch(b *testing.B) {
	bp := NewBufferPool(lineScratchSize)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf, release := bp.Scratch(128)
		buf[0] = byte(i)
		release()
	}
}
