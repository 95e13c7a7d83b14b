package encoder

import "sync"

// FramePool recycles frame byte buffers between the renderer and the sink.
// At 1080x1920 a frame is ~6MB, so reuse matters far more than for typical
// pooled objects.
type FramePool struct {
	size int
	pool sync.Pool
}

// NewFramePool returns a pool of w*h*3 byte buffers.
func NewFramePool(w, h int) *FramePool {
	size := w * h * 3
	return &FramePool{
		size: size,
		pool: sync.Pool{
			New: func() any { return make([]byte, size) },
		},
	}
}

func (p *FramePool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put returns a buffer; wrong-sized buffers are discarded.
func (p *FramePool) Put(b []byte) {
	if len(b) != p.size {
		return
	}
	p.pool.Put(b)
}
