// Package palettecache memoises palette extraction per (image content, K).
package palettecache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/jmylchreest/moodboard/internal/colour"
)

// Key identifies one extraction: the SHA-256 of the raw image bytes plus the
// requested colour count.
type Key struct {
	ImageSHA256 [sha256.Size]byte
	Count       int
}

// NewKey hashes image bytes into a Key.
func NewKey(imageBytes []byte, count int) Key {
	return Key{ImageSHA256: sha256.Sum256(imageBytes), Count: count}
}

// String returns a short printable form of the key.
func (k Key) String() string {
	return fmt.Sprintf("%s/k=%d", hex.EncodeToString(k.ImageSHA256[:8]), k.Count)
}

// Options configures eviction.
type Options struct {
	// MaxEntries bounds the cache. Zero means unbounded: entries are never
	// evicted for the lifetime of the process. When positive, the oldest
	// inserted entry is evicted first.
	MaxEntries int
}

// Policy describes the eviction policy in effect.
func (o Options) Policy() string {
	if o.MaxEntries <= 0 {
		return "unbounded"
	}
	return fmt.Sprintf("fifo(max=%d)", o.MaxEntries)
}

// ErrComputePanicked is returned to callers that were waiting on a
// computation that panicked.
var ErrComputePanicked = errors.New("palette computation panicked")

// ComputeFunc produces the palette for a key on a cache miss.
type ComputeFunc func() (*colour.Palette, error)

type entry struct {
	done    chan struct{}
	palette *colour.Palette
	err     error
}

// Cache maps Keys to palettes. It is safe for concurrent use.
type Cache struct {
	opts Options

	mu      sync.Mutex
	entries map[Key]*entry
	order   []Key
}

// New creates a cache with the given options.
func New(opts Options) *Cache {
	return &Cache{
		opts:    opts,
		entries: make(map[Key]*entry),
	}
}

// Options returns the options the cache was created with.
func (c *Cache) Options() Options {
	return c.opts
}

// Get returns a completed palette for key.
func (c *Cache) Get(key Key) (*colour.Palette, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	select {
	case <-e.done:
		return e.palette, e.err == nil
	default:
		return nil, false
	}
}

// Put stores a palette, replacing any previous value for key.
func (c *Cache) Put(key Key, p *colour.Palette) {
	e := &entry{done: make(chan struct{}), palette: p}
	close(e.done)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = e
	c.evictLocked()
}

// GetOrCompute returns the cached palette for key, computing it with fn at
// most once. Concurrent callers for the same key wait for the first result.
// Failed computations are not cached. The second return value reports a hit.
func (c *Cache) GetOrCompute(key Key, fn ComputeFunc) (*colour.Palette, bool, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		<-e.done
		if e.err != nil {
			return nil, false, e.err
		}
		return e.palette, true, nil
	}

	e := &entry{done: make(chan struct{})}
	c.entries[key] = e
	c.order = append(c.order, key)
	c.mu.Unlock()

	completed := false
	defer func() {
		if completed {
			return
		}
		// fn panicked: release waiters and drop the entry so the key can be
		// computed again.
		e.err = ErrComputePanicked
		close(e.done)
		c.mu.Lock()
		if c.entries[key] == e {
			delete(c.entries, key)
			c.removeOrderLocked(key)
		}
		c.mu.Unlock()
	}()

	e.palette, e.err = fn()
	completed = true
	close(e.done)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e.err != nil {
		if c.entries[key] == e {
			delete(c.entries, key)
			c.removeOrderLocked(key)
		}
		return nil, false, e.err
	}
	c.evictLocked()
	return e.palette, false, nil
}

// Len returns the number of stored entries, including in-flight ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictLocked() {
	if c.opts.MaxEntries <= 0 {
		return
	}
	for len(c.order) > c.opts.MaxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *Cache) removeOrderLocked(key Key) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
