package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
	"github.com/soujanyavullam/epic-web-app/internal/dto"
	"github.com/soujanyavullam/epic-web-app/internal/entity"
	"github.com/soujanyavullam/epic-web-app/internal/pkg/logger"
	"github.com/soujanyavullam/epic-web-app/internal/repository/contract"
	"github.com/soujanyavullam/epic-web-app/internal/repository/memory"
	"github.com/soujanyavullam/epic-web-app/internal/repository/specification"
	"github.com/soujanyavullam/epic-web-app/internal/repository/unitofwork"
	"github.com/soujanyavullam/epic-web-app/pkg/embedding"
	"github.com/soujanyavullam/epic-web-app/pkg/search"
)

// fakeEmbedder returns a deterministic vector per text; texts containing
// failOn always error.
type fakeEmbedder struct {
	failOn string
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, apperror.New(apperror.KindPermanentUpstream, "fakeEmbedder.Embed", "simulated embedding failure")
	}
	v := make([]float64, 3)
	for i, r := range text {
		v[i%3] += float64(r)
	}
	return v, nil
}

func newTestCache(factory *memory.Factory) *search.Cache {
	loader := func(ctx context.Context, bookTitle string) ([]search.Entry, error) {
		chunks, err := factory.Chunks.FindAll(ctx,
			specification.ByBookTitle{BookTitle: bookTitle},
			specification.Embedded{},
			specification.OrderBy{Field: "chunk_index"},
		)
		if err != nil {
			return nil, err
		}
		entries := make([]search.Entry, 0, len(chunks))
		for _, c := range chunks {
			entries = append(entries, search.Entry{
				BookTitle: c.BookTitle,
				ChunkID:   c.ChunkID,
				Vector:    c.Embedding,
			})
		}
		return entries, nil
	}
	return search.NewCache(time.Hour, search.BackendBrute, loader)
}

func TestIngestStoresAllChunks(t *testing.T) {
	factory := memory.NewFactory()
	cache := newTestCache(factory)
	svc := NewIngestionService(factory, &fakeEmbedder{}, cache, nil, logger.NewNopLogger(), 4000, 8)

	// 1800 five-char words: 9000 chars packs into exactly 3 chunks of 4000.
	text := strings.TrimSpace(strings.Repeat("word ", 1800))

	resp, err := svc.Ingest(context.Background(), dto.IngestBookRequest{Title: "epic", Text: text})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.ChunksRequested)
	assert.Equal(t, 3, resp.ChunksStored)
	assert.Empty(t, resp.Warning)

	book, err := factory.Books.FindOne(context.Background(), specification.ByTitle{Title: "epic"})
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, 3, book.ChunkCount)

	chunks, err := factory.Chunks.FindAll(context.Background(),
		specification.ByBookTitle{BookTitle: "epic"},
		specification.OrderBy{Field: "chunk_index"},
	)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, fmt.Sprintf("epic-%04d", i), c.ChunkID)
		assert.NotNil(t, c.Embedding)
		assert.Equal(t, len(c.Text)/4, c.TokenEstimate)
	}
}

func TestIngestPartialFailure(t *testing.T) {
	factory := memory.NewFactory()
	cache := newTestCache(factory)
	embedder := &fakeEmbedder{failOn: "zzfail"}
	svc := NewIngestionService(factory, embedder, cache, nil, logger.NewNopLogger(), 20, 2)

	// Three chunks; the middle one trips the embedder.
	text := "alpha beta gamma delta zzfail epsilon zeta etaeta thetaa iotaio kappaa"

	resp, err := svc.Ingest(context.Background(), dto.IngestBookRequest{Title: "partial", Text: text})
	require.NoError(t, err)
	assert.Greater(t, resp.ChunksRequested, resp.ChunksStored)
	assert.NotEmpty(t, resp.Warning)

	// Failed chunks are omitted, never stored without an embedding.
	chunks, err := factory.Chunks.FindAll(context.Background(), specification.ByBookTitle{BookTitle: "partial"})
	require.NoError(t, err)
	assert.Len(t, chunks, resp.ChunksStored)
	for _, c := range chunks {
		assert.NotNil(t, c.Embedding)
		assert.NotContains(t, c.Text, "zzfail")
	}
}

func TestIngestEmptyText(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewIngestionService(factory, &fakeEmbedder{}, newTestCache(factory), nil, logger.NewNopLogger(), 4000, 8)

	resp, err := svc.Ingest(context.Background(), dto.IngestBookRequest{Title: "empty", Text: ""})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ChunksRequested)
	assert.Equal(t, 0, resp.ChunksStored)

	// No book row for a no-op ingest.
	book, err := factory.Books.FindOne(context.Background(), specification.ByTitle{Title: "empty"})
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestIngestRequiresTitle(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewIngestionService(factory, &fakeEmbedder{}, newTestCache(factory), nil, logger.NewNopLogger(), 4000, 8)

	_, err := svc.Ingest(context.Background(), dto.IngestBookRequest{Title: "", Text: "some text"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
}

// failingStoreFactory wraps the in-memory factory so chunk writes whose
// text contains failOn error out.
type failingStoreFactory struct {
	*memory.Factory
	failOn string
}

func (f *failingStoreFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &failingStoreUow{UnitOfWork: f.Factory.NewUnitOfWork(ctx), failOn: f.failOn}
}

type failingStoreUow struct {
	unitofwork.UnitOfWork
	failOn string
}

func (u *failingStoreUow) BookChunkRepository() contract.BookChunkRepository {
	return &failingChunkRepo{BookChunkRepository: u.UnitOfWork.BookChunkRepository(), failOn: u.failOn}
}

type failingChunkRepo struct {
	contract.BookChunkRepository
	failOn string
}

func (r *failingChunkRepo) Create(ctx context.Context, chunk *entity.BookChunk) error {
	if r.failOn != "" && strings.Contains(chunk.Text, r.failOn) {
		return apperror.New(apperror.KindInternal, "failingChunkRepo.Create", "simulated store failure")
	}
	return r.BookChunkRepository.Create(ctx, chunk)
}

func TestIngestIsolatesStoreFailures(t *testing.T) {
	base := memory.NewFactory()
	factory := &failingStoreFactory{Factory: base, failOn: "zzfail"}
	cache := newTestCache(base)
	svc := NewIngestionService(factory, &fakeEmbedder{}, cache, nil, logger.NewNopLogger(), 20, 4)

	// Three chunks embed fine; the one carrying the marker fails at the
	// store step and must not drag its siblings down.
	text := "alpha beta gamma delta zzfail epsilon zeta etaeta thetaa iotaio kappaa"

	resp, err := svc.Ingest(context.Background(), dto.IngestBookRequest{Title: "storefail", Text: text})
	require.NoError(t, err)
	assert.Greater(t, resp.ChunksRequested, resp.ChunksStored)
	assert.Greater(t, resp.ChunksStored, 0)
	assert.NotEmpty(t, resp.Warning)

	chunks, err := base.Chunks.FindAll(context.Background(), specification.ByBookTitle{BookTitle: "storefail"})
	require.NoError(t, err)
	assert.Len(t, chunks, resp.ChunksStored)
	for _, c := range chunks {
		assert.NotContains(t, c.Text, "zzfail")
	}
}

// flakyEmbedder fails transiently a fixed number of times before
// succeeding, counting every call and every success.
type flakyEmbedder struct {
	failuresLeft int
	calls        int
	successes    int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, apperror.New(apperror.KindTransientUpstream, "flakyEmbedder.Embed", "throttled")
	}
	f.successes++
	return make([]float64, embedding.Dimension), nil
}

func TestIngestRecoversFromTransientEmbeddingFailures(t *testing.T) {
	factory := memory.NewFactory()
	cache := newTestCache(factory)

	// Two transient failures, then success: the retry wrapper absorbs
	// them and the chunk is stored exactly once.
	flaky := &flakyEmbedder{failuresLeft: 2}
	retrying := embedding.NewRetrying(flaky, logger.NewNopLogger())
	retrying.BaseDelay = time.Millisecond

	svc := NewIngestionService(factory, retrying, cache, nil, logger.NewNopLogger(), 4000, 1)

	resp, err := svc.Ingest(context.Background(), dto.IngestBookRequest{Title: "flaky", Text: "a single short chunk"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ChunksRequested)
	assert.Equal(t, 1, resp.ChunksStored)
	assert.Empty(t, resp.Warning)
	assert.Equal(t, 3, flaky.calls)
	assert.Equal(t, 1, flaky.successes)

	chunks, err := factory.Chunks.FindAll(context.Background(), specification.ByBookTitle{BookTitle: "flaky"})
	require.NoError(t, err)
	require.Len(t, chunks, 1, "retried chunk must be stored exactly once")
}

func TestIngestInvalidatesIndexCache(t *testing.T) {
	factory := memory.NewFactory()
	cache := newTestCache(factory)
	svc := NewIngestionService(factory, &fakeEmbedder{}, cache, nil, logger.NewNopLogger(), 4000, 8)

	_, err := svc.Ingest(context.Background(), dto.IngestBookRequest{Title: "cached", Text: "first batch of words"})
	require.NoError(t, err)

	first, err := cache.GetOrBuild(context.Background(), "cached")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Len())

	_, err = svc.Ingest(context.Background(), dto.IngestBookRequest{Title: "cached", Text: "second batch of words"})
	require.NoError(t, err)

	second, err := cache.GetOrBuild(context.Background(), "cached")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Len(), "re-ingestion must invalidate the cached index")
}
