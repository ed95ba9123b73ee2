package objectstore

import "context"

// Store persists raw uploaded book text. It is write-once read-many and
// never consulted by the retrieval algorithms themselves; chunks in the
// database are the source of truth for search.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}
