package engine

import (
	"bytes"
	"sync"
)

// truncationMarker is appended to capped output so a reader can tell the
// capture is incomplete.
const truncationMarker = "\n... [output truncated]"

// cappedBuffer is an io.Writer that stops retaining data after limit bytes.
// Writes past the cap are counted but discarded, so a misbehaving check
// cannot grow memory without bound. Writes never fail from the child's
// perspective.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(p)
	if b.truncated {
		return n, nil
	}

	remaining := b.limit - b.buf.Len()
	if n <= remaining {
		b.buf.Write(p)
		return n, nil
	}

	if remaining > 0 {
		b.buf.Write(p[:remaining])
	}
	b.truncated = true
	return n, nil
}

// Bytes returns the captured output, with a truncation marker when the cap
// was hit.
func (b *cappedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.truncated {
		return b.buf.Bytes()
	}
	out := make([]byte, 0, b.buf.Len()+len(truncationMarker))
	out = append(out, b.buf.Bytes()...)
	out = append(out, truncationMarker...)
	return out
}

// Truncated reports whether the cap was hit.
func (b *cappedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}
