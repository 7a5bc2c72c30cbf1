package solver

// lruCache holds recently used kernel-matrix columns as float32 slices,
// bounded by the configured cache size. Columns are recycled in least
// recently used order when space runs out.
type lruCache struct {
	l    int
	size int64 // remaining capacity in float32 entries
	head []*cacheEntry
	lru  *cacheEntry
}

type cacheEntry struct {
	prev, next *cacheEntry
	data       []float32
	len        int
}

func newCache(l int, bytes int64) *lruCache {
	c := &lruCache{l: l, head: make([]*cacheEntry, l)}
	for i := range c.head {
		c.head[i] = new(cacheEntry)
	}
	c.size = bytes / 4
	c.size -= int64(l * 4)
	// always room for two full columns
	if min := int64(2 * l); c.size < min {
		c.size = min
	}
	c.lru = new(cacheEntry)
	c.lru.prev = c.lru
	c.lru.next = c.lru
	return c
}

func (c *lruCache) unlink(h *cacheEntry) {
	h.prev.next = h.next
	h.next.prev = h.prev
}

func (c *lruCache) insertLast(h *cacheEntry) {
	h.next = c.lru
	h.prev = c.lru.prev
	h.prev.next = h
	h.next.prev = h
}

// getData returns the column buffer for index and the number of entries
// already filled; callers compute entries [filled, n) themselves.
func (c *lruCache) getData(index, n int) ([]float32, int) {
	h := c.head[index]
	if h.len > 0 {
		c.unlink(h)
	}
	if more := n - h.len; more > 0 {
		for c.size < int64(more) {
			old := c.lru.next
			c.unlink(old)
			c.size += int64(old.len)
			old.data = nil
			old.len = 0
		}
		data := make([]float32, n)
		copy(data, h.data[:h.len])
		h.data = data
		c.size -= int64(more)
		h.len, n = n, h.len
	}
	c.insertLast(h)
	return h.data, n
}

func (c *lruCache) swapIndex(i, j int) {
	if i == j {
		return
	}

	if c.head[i].len > 0 {
		c.unlink(c.head[i])
	}
	if c.head[j].len > 0 {
		c.unlink(c.head[j])
	}
	c.head[i].data, c.head[j].data = c.head[j].data, c.head[i].data
	c.head[i].len, c.head[j].len = c.head[j].len, c.head[i].len
	if c.head[i].len > 0 {
		c.insertLast(c.head[i])
	}
	if c.head[j].len > 0 {
		c.insertLast(c.head[j])
	}

	if i > j {
		i, j = j, i
	}
	for h := c.lru.next; h != c.lru; h = h.next {
		if h.len > i {
			if h.len > j {
				h.data[i], h.data[j] = h.data[j], h.data[i]
			} else {
				// column no longer consistent, drop it
				c.unlink(h)
				c.size += int64(h.len)
				h.data = nil
				h.len = 0
			}
		}
	}
}
