package mapper

import (
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/soujanyavullam/epic-web-app/internal/entity"
	"github.com/soujanyavullam/epic-web-app/internal/model"
)

type BookChunkMapper struct{}

func NewBookChunkMapper() *BookChunkMapper {
	return &BookChunkMapper{}
}

func (m *BookChunkMapper) ToEntity(e *model.BookChunk) *entity.BookChunk {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	var embedding []float64
	if e.Embedding != nil {
		embedding = toFloat64(e.Embedding.Slice())
	}

	return &entity.BookChunk{
		Id:            e.Id,
		ChunkID:       e.ChunkID,
		BookTitle:     e.BookTitle,
		ChunkIndex:    e.ChunkIndex,
		Text:          e.Text,
		TokenEstimate: e.TokenEstimate,
		Embedding:     embedding,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *BookChunkMapper) ToModel(e *entity.BookChunk) *model.BookChunk {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var embedding *pgvector.Vector
	if e.Embedding != nil {
		v := pgvector.NewVector(toFloat32(e.Embedding))
		embedding = &v
	}

	return &model.BookChunk{
		Id:            e.Id,
		ChunkID:       e.ChunkID,
		BookTitle:     e.BookTitle,
		ChunkIndex:    e.ChunkIndex,
		Text:          e.Text,
		TokenEstimate: e.TokenEstimate,
		Embedding:     embedding,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *BookChunkMapper) ToEntities(chunks []*model.BookChunk) []*entity.BookChunk {
	entities := make([]*entity.BookChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
