package serial

import (
	"sync"

	"go.uber.org/atomic"
)

// lineScratchSize is the fixed size of pooled line-assembly buffers.
// Requests larger than this fall back to a direct allocation.
const lineScratchSize = 256

// BufferPool manages reusable fixed-size byte buffers for line
// assembly and relay scratch space.
type BufferPool struct {
	pool sync.Pool
	size int

	gets    atomic.Int64
	puts    atomic.Int64
	creates atomic.Int64
}

// NewBufferPool creates a buffer pool with fixed-size buffers.
func NewBufferPool(bufferSize int) *BufferPool {
	bp := &BufferPool{size: bufferSize}
	bp.pool = sync.Pool{
		New: func() interface{} {
			bp.creates.Inc()
			return make([]byte, bufferSize)
		},
	}
	return bp
}

// Get retrieves a buffer from the pool.
func (bp *BufferPool) Get() []byte {
	bp.gets.Inc()
	return bp.pool.Get().([]byte)
}

// Put returns a buffer to the pool. Incorrectly sized buffers are
// dropped rather than pooled.
func (bp *BufferPool) Put(buf []byte) {
	if len(buf) != bp.size {
		return
	}
	bp.puts.Inc()
	clear(buf)
	bp.pool.Put(buf)
}

// Scratch returns a buffer of at least size bytes and a release
// function. Requests within the pooled size are served from the pool
// and must be released; larger ones are plain allocations with a
// no-op release.
func (bp *BufferPool) Scratch(size int) ([]byte, func()) {
	if size <= bp.size {
		buf := bp.Get()
		return buf[:size], func() { bp.Put(buf[:cap(buf)]) }
	}
	return make([]byte, size), func() {}
}

// Stats returns pool usage statistics.
func (bp *BufferPool) Stats() PoolStats {
	return PoolStats{
		Size:    bp.size,
		Gets:    bp.gets.Load(),
		Puts:    bp.puts.Load(),
		Creates: bp.creates.Load(),
	}
}

// PoolStats contains buffer pool usage statistics.
type PoolStats struct {
	Size    int   // Buffer size managed by this pool
	Gets    int64 // Number of Get() calls
	Puts    int64 // Number of Put() calls
	Creates int64 // Number of new buffers created
}

// HitRatio returns the cache hit ratio (0.0 to 1.0).
func (ps PoolStats) HitRatio() float64 {
	if ps.Gets == 0 {
		return 0.0
	}
	return 1.0 - (float64(ps.Creates) / float64(ps.Gets))
}
