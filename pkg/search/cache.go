package search

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
)

// Loader pulls the embedded chunks of a book from durable storage. Chunks
// without an embedding must be excluded by the loader.
type Loader func(ctx context.Context, bookTitle string) ([]Entry, error)

// Cache holds one similarity index per book title with a freshness TTL.
//
// Staleness is deliberate: ingestion invalidates a title's entry but never
// triggers a rebuild, so a query may be served by an index up to TTL old.
// That consistency window buys query throughput and is part of the design,
// not a bug to fix with write-through rebuilds.
type Cache struct {
	backend string
	loader  Loader
	entries *gocache.Cache
}

func NewCache(ttl time.Duration, backend string, loader Loader) *Cache {
	return &Cache{
		backend: backend,
		loader:  loader,
		entries: gocache.New(ttl, 10*time.Minute),
	}
}

// GetOrBuild returns the cached index for the title when present and fresh,
// otherwise rebuilds synchronously from storage and replaces the entry
// atomically. Concurrent readers during a rebuild keep seeing the old entry
// (or rebuild themselves); a half-built index is never observable because
// the swap happens only after Build completes.
func (c *Cache) GetOrBuild(ctx context.Context, bookTitle string) (Index, error) {
	if cached, found := c.entries.Get(bookTitle); found {
		return cached.(Index), nil
	}

	loaded, err := c.loader(ctx, bookTitle)
	if err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		return nil, apperror.New(apperror.KindNotFound, "search.cache",
			fmt.Sprintf("no embedded chunks found for book: %s", bookTitle))
	}

	idx, err := NewIndex(c.backend, loaded)
	if err != nil {
		return nil, err
	}

	c.entries.Set(bookTitle, idx, gocache.DefaultExpiration)
	return idx, nil
}

// Invalidate drops the cached index for a title. Ingestion calls this after
// storing new chunks; the next query pays for the rebuild.
func (c *Cache) Invalidate(bookTitle string) {
	c.entries.Delete(bookTitle)
}
