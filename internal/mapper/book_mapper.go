package mapper

import (
	"time"

	"github.com/soujanyavullam/epic-web-app/internal/entity"
	"github.com/soujanyavullam/epic-web-app/internal/model"
)

type BookMapper struct{}

func NewBookMapper() *BookMapper {
	return &BookMapper{}
}

func (m *BookMapper) ToEntity(e *model.Book) *entity.Book {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Book{
		Id:         e.Id,
		Title:      e.Title,
		SourceKey:  e.SourceKey,
		ChunkCount: e.ChunkCount,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *BookMapper) ToModel(e *entity.Book) *model.Book {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Book{
		Id:         e.Id,
		Title:      e.Title,
		SourceKey:  e.SourceKey,
		ChunkCount: e.ChunkCount,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *BookMapper) ToEntities(books []*model.Book) []*entity.Book {
	entities := make([]*entity.Book, len(books))
	for i, b := range books {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
