// Package strpool recycles string builders used for storage keys.
package strpool

import (
	"strings"
	"sync"
)

var pool = sync.Pool{
	New: func() interface{} {
		return new(strings.Builder)
	},
}

// Get returns an empty builder.
func Get() *strings.Builder {
	return pool.Get().(*strings.Builder)
}

// Put resets b and returns it to the pool. Strings already taken from b
// stay valid.
func Put(b *strings.Builder) {
	if b == nil {
		return
	}
	b.Reset()
	pool.Put(b)
}
