package catalog

import (
	"slices"
	"sync"
)

// Cache is an in-memory lookup of titles by ID. It is safe for concurrent
// use and never evicts; Replace swaps the whole contents in one step.
type Cache struct {
	mu     sync.RWMutex
	titles map[int]Title
}

// NewCache creates an empty title cache
func NewCache() *Cache {
	return &Cache{
		titles: make(map[int]Title),
	}
}

// Get returns a copy of the cached title for id
func (c *Cache) Get(id int) (Title, bool) {
	c.mu.RLock()
	t, ok := c.titles[id]
	c.mu.RUnlock()

	if !ok {
		return Title{}, false
	}
	return t.clone(), true
}

// Put stores a title, replacing any entry with the same ID
func (c *Cache) Put(t Title) {
	t = t.clone()

	c.mu.Lock()
	c.titles[t.ID] = t
	c.mu.Unlock()
}

// PutAll stores every title. Later entries win over earlier ones with the same ID.
func (c *Cache) PutAll(titles []Title) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range titles {
		c.titles[t.ID] = t.clone()
	}
}

// Replace discards the current contents and stores titles in their place
func (c *Cache) Replace(titles []Title) {
	next := make(map[int]Title, len(titles))
	for _, t := range titles {
		next[t.ID] = t.clone()
	}

	c.mu.Lock()
	c.titles = next
	c.mu.Unlock()
}

// Clear removes every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	c.titles = make(map[int]Title)
	c.mu.Unlock()
}

// Len returns the number of cached titles
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.titles)
}

// Titles returns a snapshot of the cache ordered by ID
func (c *Cache) Titles() []Title {
	c.mu.RLock()
	out := make([]Title, 0, len(c.titles))
	for _, t := range c.titles {
		out = append(out, t.clone())
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b Title) int {
		return a.ID - b.ID
	})
	return out
}
