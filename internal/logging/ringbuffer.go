package logging

import (
	"os"
	"sync"
)

// RingBuffer is a fixed-size, goroutine-safe io.Writer that keeps only the
// most recent bytes written to it. It backs the SIGUSR1 log dump.
type RingBuffer struct {
	mu      sync.Mutex
	buf     []byte
	next    int  // write position
	wrapped bool // buf holds a full window
}

// NewRingBuffer creates a ring buffer holding size bytes (1MB when size <= 0).
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = 1024 * 1024
	}
	return &RingBuffer{buf: make([]byte, size)}
}

// Write implements io.Writer. It never fails; old data is overwritten.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := len(p)
	size := len(rb.buf)
	if n >= size {
		copy(rb.buf, p[n-size:])
		rb.next = 0
		rb.wrapped = true
		return n, nil
	}

	tail := copy(rb.buf[rb.next:], p)
	if tail < n {
		copy(rb.buf, p[tail:])
		rb.next = n - tail
		rb.wrapped = true
		return n, nil
	}
	rb.next += n
	if rb.next == size {
		rb.next = 0
		rb.wrapped = true
	}
	return n, nil
}

// Bytes returns a copy of the buffered data, oldest first.
func (rb *RingBuffer) Bytes() []byte {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if !rb.wrapped {
		return append([]byte(nil), rb.buf[:rb.next]...)
	}
	out := make([]byte, 0, len(rb.buf))
	out = append(out, rb.buf[rb.next:]...)
	return append(out, rb.buf[:rb.next]...)
}

// DumpToFile writes Bytes() to path.
func (rb *RingBuffer) DumpToFile(path string) error {
	return os.WriteFile(path, rb.Bytes(), 0o644)
}
