package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

var _ Cache = (*LRU)(nil)

// LRU is an adaptive replacement cache holding at most size entries.
type LRU struct {
	arc *lru.ARCCache
}

func NewLRU(size int) (*LRU, error) {
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("new arc cache of %d: %w", size, err)
	}

	return &LRU{arc: c}, nil
}

func (c *LRU) Get(key interface{}) (interface{}, bool) {
	return c.arc.Get(key)
}

func (c *LRU) Add(key, value interface{}) {
	c.arc.Add(key, value)
}

func (c *LRU) Delete(key interface{}) {
	c.arc.Remove(key)
}
