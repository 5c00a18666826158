// Package cache fronts the bbolt stores with an in-memory cache.
package cache

// Cache is safe for concurrent use.
type Cache interface {
	Get(key interface{}) (interface{}, bool)
	Add(key, value interface{})
	Delete(key interface{})
}
