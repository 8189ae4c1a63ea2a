package bundlefs

import (
	"errors"
	"io"
	"io/fs"

	humanize "github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

// CachedBundle keeps recently resolved entries of another Bundle in memory.
// Cached bytes are shared read-only between every Asset handed out for
// the same entry.
type CachedBundle struct {
	Bundle
	cache *lru.Cache
}

// NewCachedBundle wraps lower with an LRU cache holding up to
// maxEntries resolved entries.
func NewCachedBundle(lower Bundle, maxEntries int) (*CachedBundle, error) {
	cache, err := lru.New(maxEntries)
	if err != nil {
		return nil, err
	}
	return &CachedBundle{Bundle: lower, cache: cache}, nil
}

// Open resolves name from the cache, falling back to the wrapped bundle.
func (c *CachedBundle) Open(name string) (Asset, error) {
	cleaned, err := cleanName("open", name)
	if err != nil {
		return nil, err
	}

	if cached, ok := c.cache.Get(cleaned); ok {
		log.Debugf("Bundle cache hit: %s", cleaned)
		return &byteAsset{data: cached.([]byte)}, nil
	}

	asset, err := c.Bundle.Open(cleaned)
	if err != nil {
		return nil, err
	}
	defer asset.Close()

	data := asset.Bytes()
	c.cache.Add(cleaned, data)
	log.Debugf("Cached bundle entry %s (%s)", cleaned, humanize.Bytes(uint64(len(data))))
	return &byteAsset{data: data}, nil
}

// Len returns the number of cached entries.
func (c *CachedBundle) Len() int {
	return c.cache.Len()
}

// Purge drops every cached entry.
func (c *CachedBundle) Purge() {
	c.cache.Purge()
}

// Close drops the cache and closes the wrapped bundle if it holds
// resources, as a ZipBundle does.
func (c *CachedBundle) Close() error {
	c.cache.Purge()
	if closer, ok := c.Bundle.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// OpenWriter forwards to the wrapped bundle when it accepts writes. The
// cached copy of the entry is dropped now and again once the write is
// committed on Close.
func (c *CachedBundle) OpenWriter(name string) (io.WriteCloser, error) {
	w, ok := c.Bundle.(Writer)
	if !ok {
		return nil, &fs.PathError{Op: "create", Path: name, Err: errors.ErrUnsupported}
	}
	cleaned, err := cleanName("create", name)
	if err != nil {
		return nil, err
	}
	c.cache.Remove(cleaned)

	lower, err := w.OpenWriter(cleaned)
	if err != nil {
		return nil, err
	}
	return &cachedWriter{WriteCloser: lower, cache: c.cache, name: cleaned}, nil
}

// cachedWriter evicts its entry after the lower writer commits it.
type cachedWriter struct {
	io.WriteCloser
	cache *lru.Cache
	name  string
}

func (w *cachedWriter) Close() error {
	err := w.WriteCloser.Close()
	w.cache.Remove(w.name)
	return err
}
