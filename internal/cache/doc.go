// Package cache provides a small thread-safe LRU cache.
//
//	c := cache.New[string, []int](256)
//	v := c.GetOrCreate("key", func() []int { return compute() })
//
// The text package uses it to keep shaped runs, so redrawing the same
// strings every frame does not reshape them.
package cache
