package closure

import "container/list"

// lruCache is a capacity-bounded least-recently-used cache. onEvict runs
// for every value leaving the cache, including replacements and Clear,
// so owners of C allocations can release them. Not safe for concurrent
// use; the driver serializes access.
type lruCache[K comparable, V any] struct {
	capacity int
	onEvict  func(V)
	items    map[K]*list.Element
	order    *list.List // front = most-recently used
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

func newLRUCache[K comparable, V any](capacity int, onEvict func(V)) *lruCache[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &lruCache[K, V]{
		capacity: capacity,
		onEvict:  onEvict,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached value and marks it most-recently used.
func (c *lruCache[K, V]) Get(key K) (V, bool) {
	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry[K, V]).value, true
}

// Put inserts or replaces a value, evicting the least-recently-used
// entry when the cache is full.
func (c *lruCache[K, V]) Put(key K, value V) {
	if el, ok := c.items[key]; ok {
		entry := el.Value.(*lruEntry[K, V])
		if c.onEvict != nil {
			c.onEvict(entry.value)
		}
		entry.value = value
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
}

// Evict removes a specific key. Unknown keys are no-ops.
func (c *lruCache[K, V]) Evict(key K) {
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
}

// Clear evicts every entry.
func (c *lruCache[K, V]) Clear() {
	for c.order.Len() > 0 {
		c.evictOldest()
	}
}

func (c *lruCache[K, V]) Len() int {
	return c.order.Len()
}

func (c *lruCache[K, V]) evictOldest() {
	if back := c.order.Back(); back != nil {
		c.remove(back)
	}
}

func (c *lruCache[K, V]) remove(el *list.Element) {
	entry := el.Value.(*lruEntry[K, V])
	c.order.Remove(el)
	delete(c.items, entry.key)
	if c.onEvict != nil {
		c.onEvict(entry.value)
	}
}
