package logging

import (
	"os"
	"sync"
)

// ringBuffer keeps the most recent log bytes in a fixed circular buffer.
// It implements io.Writer; old data is overwritten once the buffer fills,
// so a long-running dashboard can always dump its recent history without
// growing memory.
type ringBuffer struct {
	mu    sync.Mutex
	buf   []byte
	start int // index of the oldest byte
	count int // bytes currently stored
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity <= 0 {
		capacity = 4 << 20
	}
	return &ringBuffer{buf: make([]byte, capacity)}
}

// Write never fails and never blocks on space; it reports the full input
// length even when older bytes were overwritten to make room.
func (r *ringBuffer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(p)
	size := len(r.buf)

	if n >= size {
		// Input alone fills the buffer; only its tail survives.
		copy(r.buf, p[n-size:])
		r.start, r.count = 0, size
		return n, nil
	}

	end := (r.start + r.count) % size
	written := copy(r.buf[end:], p)
	copy(r.buf, p[written:])

	r.count += n
	if r.count > size {
		r.start = (r.start + r.count - size) % size
		r.count = size
	}
	return n, nil
}

// snapshot returns the stored bytes in write order.
func (r *ringBuffer) snapshot() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]byte, r.count)
	n := copy(out, r.buf[r.start:min(r.start+r.count, len(r.buf))])
	copy(out[n:], r.buf[:r.count-n])
	return out
}

// dump writes the buffer contents to path. 0600 because log lines can
// carry user command lines.
func (r *ringBuffer) dump(path string) error {
	return os.WriteFile(path, r.snapshot(), 0o600)
}
