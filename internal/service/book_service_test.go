package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
	"github.com/soujanyavullam/epic-web-app/internal/dto"
	"github.com/soujanyavullam/epic-web-app/internal/pkg/logger"
	"github.com/soujanyavullam/epic-web-app/internal/repository/memory"
)

type mapStore struct {
	objects map[string][]byte
}

func newMapStore() *mapStore {
	return &mapStore{objects: map[string][]byte{}}
}

func (m *mapStore) Put(ctx context.Context, key string, data []byte) error {
	m.objects[key] = data
	return nil
}

func (m *mapStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, apperror.New(apperror.KindNotFound, "mapStore.Get", "object not found: "+key)
	}
	return data, nil
}

type capturingPublisher struct {
	payloads [][]byte
}

func (c *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	c.payloads = append(c.payloads, payload)
	return nil
}

func TestUploadStoresRawAndQueuesIngestion(t *testing.T) {
	store := newMapStore()
	publisher := &capturingPublisher{}
	svc := NewBookService(memory.NewFactory(), store, publisher, nil, logger.NewNopLogger())

	content := "In the beginning was the tale."
	resp, err := svc.Upload(context.Background(), dto.UploadBookRequest{
		Filename:      "The Ramayana.txt",
		ContentBase64: base64.StdEncoding.EncodeToString([]byte(content)),
	})
	require.NoError(t, err)
	assert.Equal(t, "the-ramayana", resp.Title)
	assert.Equal(t, "the-ramayana.txt", resp.SourceKey)

	raw, err := store.Get(context.Background(), resp.SourceKey)
	require.NoError(t, err)
	assert.Equal(t, content, string(raw))

	require.Len(t, publisher.payloads, 1)
	var msg dto.PublishIngestBookMessage
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.Equal(t, "the-ramayana", msg.Title)
	assert.Equal(t, "the-ramayana.txt", msg.SourceKey)
}

func TestUploadRejectsNonTxt(t *testing.T) {
	svc := NewBookService(memory.NewFactory(), newMapStore(), &capturingPublisher{}, nil, logger.NewNopLogger())

	_, err := svc.Upload(context.Background(), dto.UploadBookRequest{
		Filename:      "book.pdf",
		ContentBase64: base64.StdEncoding.EncodeToString([]byte("data")),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
}

func TestUploadRejectsBadBase64(t *testing.T) {
	svc := NewBookService(memory.NewFactory(), newMapStore(), &capturingPublisher{}, nil, logger.NewNopLogger())

	_, err := svc.Upload(context.Background(), dto.UploadBookRequest{
		Filename:      "book.txt",
		ContentBase64: "not base64!!!",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
}

func TestNormalizeTitle(t *testing.T) {
	cases := map[string]string{
		"The Ramayana.txt":    "the-ramayana",
		"mahabharata.txt":     "mahabharata",
		"  Odyssey  Book.TXT": "odyssey-book",
		"path/to/Iliad.txt":   "iliad",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTitle(in), in)
	}
}

func TestListBooks(t *testing.T) {
	factory := memory.NewFactory()
	cache := newTestCache(factory)
	ingest := NewIngestionService(factory, &fakeEmbedder{}, cache, nil, logger.NewNopLogger(), 4000, 8)
	_, err := ingest.Ingest(context.Background(), dto.IngestBookRequest{Title: "iliad", Text: "sing goddess of the wrath"})
	require.NoError(t, err)

	svc := NewBookService(factory, newMapStore(), &capturingPublisher{}, nil, logger.NewNopLogger())
	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "iliad", resp.Books[0].Title)
	assert.Equal(t, 1, resp.Books[0].ChunkCount)
}
