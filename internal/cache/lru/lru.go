package lru

import (
	"container/list"
	"time"
)

// Cache is a count-bounded LRU store with lazy age-based expiry. It backs a
// single namespace of the shared cache manager and is not safe for concurrent
// use on its own; the manager serializes access.
type Cache struct {
	maxSize int
	maxAge  time.Duration

	ll    *list.List
	items map[string]*list.Element

	// now is swapped in tests to control expiry
	now func() time.Time
}

type entry struct {
	key       string
	value     any
	createdAt time.Time
}

// New creates a cache holding at most maxSize entries, each valid for maxAge
// after insertion. maxAge <= 0 disables age expiry.
func New(maxSize int, maxAge time.Duration) *Cache {
	return &Cache{
		maxSize: maxSize,
		maxAge:  maxAge,
		ll:      list.New(),
		items:   make(map[string]*list.Element),
		now:     time.Now,
	}
}

// Get returns the value for key and marks it most recently used. An entry
// past its max age is removed and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}

	ent := el.Value.(*entry)
	if c.expired(ent) {
		c.removeElement(el)
		return nil, false
	}

	c.ll.MoveToFront(el)
	return ent.value, true
}

// Set inserts or overwrites key, evicting the least recently used entry when
// the cache is full. Overwriting resets the entry's age.
func (c *Cache) Set(key string, value any) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		ent := el.Value.(*entry)
		ent.value = value
		ent.createdAt = c.now()
		return
	}

	el := c.ll.PushFront(&entry{key: key, value: value, createdAt: c.now()})
	c.items[key] = el

	if c.maxSize > 0 && c.ll.Len() > c.maxSize {
		c.removeOldest()
	}
}

// Len returns the current number of entries, including any not yet lazily
// expired.
func (c *Cache) Len() int {
	return c.ll.Len()
}

// MaxSize returns the configured entry bound.
func (c *Cache) MaxSize() int {
	return c.maxSize
}

// MaxAge returns the configured entry lifetime.
func (c *Cache) MaxAge() time.Duration {
	return c.maxAge
}

// Purge removes every entry.
func (c *Cache) Purge() {
	c.ll.Init()
	c.items = make(map[string]*list.Element)
}

// Resize updates the bounds in place. Cached entries survive unless the new
// size is below the current occupancy, in which case least recently used
// entries are evicted to fit. Zero values keep the current setting.
func (c *Cache) Resize(maxSize int, maxAge time.Duration) {
	if maxSize > 0 {
		c.maxSize = maxSize
	}
	if maxAge > 0 {
		c.maxAge = maxAge
	}
	for c.maxSize > 0 && c.ll.Len() > c.maxSize {
		c.removeOldest()
	}
}

func (c *Cache) expired(ent *entry) bool {
	return c.maxAge > 0 && c.now().Sub(ent.createdAt) >= c.maxAge
}

func (c *Cache) removeOldest() {
	if el := c.ll.Back(); el != nil {
		c.removeElement(el)
	}
}

func (c *Cache) removeElement(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
