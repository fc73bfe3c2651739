package icons

import (
	"image"
	"sync"

	"localchart/internal/logging"
)

// Cache is a concurrency-safe icon cache. Failed loads are remembered so a
// broken file is only read once.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
	log   *logging.Logger
}

type cacheEntry struct {
	img *image.NRGBA // nil if the load failed
}

// NewCache creates an icon cache backed by the given index. log may be nil.
func NewCache(index *Index, log *logging.Logger) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
		log:   log,
	}
}

// Resolve loads and caches an icon by name. Returns nil if not found or
// undecodable.
func (c *Cache) Resolve(name string) *image.NRGBA {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil
	}

	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err != nil {
		c.log.Warn("icon unusable, falling back to vector symbol", "icon", name, "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img
	}
	c.items[path] = &cacheEntry{img: img}
	return img
}

// Icon implements chart.IconFactory. Kinds map to icon stems of the same
// name, so "flyover" resolves flyover.png, flyover.tga or flyover.jpg.
func (c *Cache) Icon(kind string) (image.Image, bool) {
	img := c.Resolve(kind)
	if img == nil {
		return nil, false
	}
	return img, true
}

// Open indexes dir and returns a cache over it.
func Open(dir string, log *logging.Logger) (*Cache, error) {
	idx, err := BuildIndex(dir)
	if err != nil {
		return nil, err
	}
	log.Debug("icons indexed", "dir", dir, "count", idx.Len())
	return NewCache(idx, log), nil
}
