package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
)

type countingLoader struct {
	calls   int
	entries []Entry
	err     error
}

func (l *countingLoader) load(ctx context.Context, bookTitle string) ([]Entry, error) {
	l.calls++
	return l.entries, l.err
}

func someEntries() []Entry {
	return []Entry{
		{BookTitle: "sample", ChunkID: "sample-0000", Vector: vec(1, 0)},
		{BookTitle: "sample", ChunkID: "sample-0001", Vector: vec(0, 1)},
	}
}

func TestCacheReusesFreshIndex(t *testing.T) {
	loader := &countingLoader{entries: someEntries()}
	cache := NewCache(time.Hour, BackendBrute, loader.load)

	first, err := cache.GetOrBuild(context.Background(), "sample")
	require.NoError(t, err)
	second, err := cache.GetOrBuild(context.Background(), "sample")
	require.NoError(t, err)

	assert.Same(t, first, second, "fresh entry must be the same index instance")
	assert.Equal(t, 1, loader.calls)
}

func TestCacheRebuildsAfterTTL(t *testing.T) {
	loader := &countingLoader{entries: someEntries()}
	cache := NewCache(20*time.Millisecond, BackendBrute, loader.load)

	_, err := cache.GetOrBuild(context.Background(), "sample")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = cache.GetOrBuild(context.Background(), "sample")
	require.NoError(t, err)

	assert.Equal(t, 2, loader.calls, "expired entry triggers exactly one rebuild")
}

func TestCacheInvalidateForcesRebuild(t *testing.T) {
	loader := &countingLoader{entries: someEntries()}
	cache := NewCache(time.Hour, BackendBrute, loader.load)

	_, err := cache.GetOrBuild(context.Background(), "sample")
	require.NoError(t, err)

	cache.Invalidate("sample")

	_, err = cache.GetOrBuild(context.Background(), "sample")
	require.NoError(t, err)

	assert.Equal(t, 2, loader.calls)
}

func TestCacheEmptyBookIsNotFound(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(time.Hour, BackendBrute, loader.load)

	_, err := cache.GetOrBuild(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCacheEntriesArePerTitle(t *testing.T) {
	loader := &countingLoader{entries: someEntries()}
	cache := NewCache(time.Hour, BackendBrute, loader.load)

	_, err := cache.GetOrBuild(context.Background(), "ramayana")
	require.NoError(t, err)
	_, err = cache.GetOrBuild(context.Background(), "mahabharata")
	require.NoError(t, err)

	assert.Equal(t, 2, loader.calls)

	cache.Invalidate("ramayana")
	_, err = cache.GetOrBuild(context.Background(), "mahabharata")
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls, "invalidation is scoped to one title")
}
