// Package assets handles room asset loading, caching and load progress.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Manager loads media assets from the room assets directory.
type Manager struct {
	root  string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{
		root:  dir,
		cache: NewCache(),
	}
}

// Root returns the assets root directory.
func (m *Manager) Root() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root
}

// SetRoot changes the assets root directory and clears the cache.
func (m *Manager) SetRoot(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = dir
	m.cache.Clear()
}

// Load loads a file relative to the assets root.
func (m *Manager) Load(path string) ([]byte, error) {
	// Check cache first
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	m.mu.RLock()
	full := filepath.Join(m.root, filepath.FromSlash(path))
	m.mu.RUnlock()

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading asset %s: %w", path, err)
	}

	m.cache.Set(path, data)
	return data, nil
}

// Exists reports whether the asset file is present on disk.
func (m *Manager) Exists(path string) bool {
	if _, ok := m.cache.Get(path); ok {
		return true
	}

	m.mu.RLock()
	full := filepath.Join(m.root, filepath.FromSlash(path))
	m.mu.RUnlock()

	_, err := os.Stat(full)
	return err == nil
}

// Close releases cached data.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
