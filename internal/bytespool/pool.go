// Package bytespool recycles buffers used when encoding boards.
package bytespool

import (
	"bytes"
	"sync"
)

// maxRetained keeps oversized buffers from pinning memory in the pool.
const maxRetained = 64 << 10

var pool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// Get returns an empty buffer.
func Get() *bytes.Buffer {
	return pool.Get().(*bytes.Buffer)
}

// Put resets b and returns it to the pool.
func Put(b *bytes.Buffer) {
	if b == nil || b.Cap() > maxRetained {
		return
	}
	b.Reset()
	pool.Put(b)
}
