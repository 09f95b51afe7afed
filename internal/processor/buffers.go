package processor

import "sync"

const (
	KiB = 1 << 10
	MiB = 1 << 20

	// DefaultChunkSize is the read/transform/write unit.
	DefaultChunkSize = MiB

	// LargeFileThreshold is the input size above which per-file progress
	// events are emitted.
	LargeFileThreshold = 10 * MiB
)

// bufferPool hands out fixed-size chunk buffers so a batch of many files does
// not allocate a fresh MiB per file.
type bufferPool struct {
	pool sync.Pool
	size int
}

func newBufferPool(size int) *bufferPool {
	return &bufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, size)
				return &b
			},
		},
	}
}

func (p *bufferPool) get() []byte {
	return *p.pool.Get().(*[]byte)
}

func (p *bufferPool) put(b []byte) {
	if len(b) != p.size {
		return
	}
	p.pool.Put(&b)
}

var defaultPool = newBufferPool(DefaultChunkSize)

func getBuffer(size int) ([]byte, func()) {
	if size <= 0 || size == DefaultChunkSize {
		b := defaultPool.get()
		return b, func() { defaultPool.put(b) }
	}
	return make([]byte, size), func() {}
}
