package gridplot

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"
	"sync/atomic"
)

// SceneCache is a thread-safe LRU cache of parsed scenes for long-running
// callers that redraw the same scenes.
//
// Scenes loaded by path are keyed by the path. Scenes parsed from bytes are
// keyed by "sha256:" plus the hex digest of the content, so identical
// documents share one entry regardless of where they came from.
type SceneCache struct {
	mu        sync.Mutex
	entries   map[string]*list.Element
	lru       *list.List // front is most recently used
	maxSize   int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	key   string
	scene *Scene
}

// Global default cache for convenience
var defaultCache = NewSceneCache(100)

// NewSceneCache creates a cache holding at most maxSize scenes.
// A maxSize of 0 or less means unlimited.
func NewSceneCache(maxSize int) *SceneCache {
	return &SceneCache{
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// LoadSceneCached loads a scene file through the default cache.
func LoadSceneCached(path string) (*Scene, error) {
	return defaultCache.LoadScene(path)
}

// ParseSceneCached parses scene bytes through the default cache.
func ParseSceneCached(data []byte) (*Scene, error) {
	return defaultCache.ParseScene(data)
}

// LoadScene reads and parses the scene file at path unless it is cached.
func (c *SceneCache) LoadScene(path string) (*Scene, error) {
	if sc := c.get(path); sc != nil {
		return sc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseSceneBytes(data)
	if err != nil {
		return nil, err
	}
	c.put(path, sc)
	return sc, nil
}

// ParseScene parses data unless a scene with the same content is cached.
func (c *SceneCache) ParseScene(data []byte) (*Scene, error) {
	sum := sha256.Sum256(data)
	key := "sha256:" + hex.EncodeToString(sum[:])

	if sc := c.get(key); sc != nil {
		return sc, nil
	}
	sc, err := ParseSceneBytes(data)
	if err != nil {
		return nil, err
	}
	c.put(key, sc)
	return sc, nil
}

func (c *SceneCache) get(key string) *Scene {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil
	}
	c.lru.MoveToFront(el)
	c.hits.Add(1)
	return el.Value.(*cacheEntry).scene
}

func (c *SceneCache) put(key string, sc *Scene) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			delete(c.entries, oldest.Value.(*cacheEntry).key)
			c.lru.Remove(oldest)
			c.evictions.Add(1)
		}
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, scene: sc})
}

// Clear removes all scenes from the cache. Statistics are kept.
func (c *SceneCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

// Stats returns cache statistics.
func (c *SceneCache) Stats() CacheStats {
	c.mu.Lock()
	size := len(c.entries)
	c.mu.Unlock()

	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// CacheStats contains cache performance statistics
type CacheStats struct {
	Size      int    // Current number of cached scenes
	MaxSize   int    // Maximum cache size
	Hits      uint64 // Number of cache hits
	Misses    uint64 // Number of cache misses
	Evictions uint64 // Number of evictions
}

// HitRate returns the cache hit rate as a percentage (0-100)
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) * 100 / float64(total)
}

// SetDefaultCacheSize replaces the default cache with an empty one of the
// given size. Call it once at startup.
func SetDefaultCacheSize(maxSize int) {
	defaultCache = NewSceneCache(maxSize)
}

// ClearDefaultCache clears the default scene cache.
func ClearDefaultCache() {
	defaultCache.Clear()
}

// DefaultCacheStats returns statistics for the default cache.
func DefaultCacheStats() CacheStats {
	return defaultCache.Stats()
}
