package cache

import (
	"testing"
)

func touch(buf []byte) {
	for i := 0; i < len(buf); i += 64 {
		buf[i]++
	}
}

func TestPoolBuffersDoNotOverlap(t *testing.T) {

	p := NewFixedSizeBufferPool(4, 128)

	a, aid := p.Get()
	b, bid := p.Get()

	for i := range a {
		a[i] = 0xaa
	}
	for i := range b {
		if b[i] == 0xaa {
			t.Fatalf("buffers share memory at byte %d", i)
		}
	}

	if len(a) != p.BufferSize() || len(b) != p.BufferSize() {
		t.Errorf("unexpected buffer sizes: %d, %d", len(a), len(b))
	}

	p.Return(aid)
	p.Return(bid)
}

func BenchmarkSliceArena(b *testing.B) {
	p := NewFixedSizeBufferPool(128, 128)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf, idx := p.Get()
			touch(buf)
			p.Return(idx)
		}
	})
}
