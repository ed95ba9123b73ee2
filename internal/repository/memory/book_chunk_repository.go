package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/soujanyavullam/epic-web-app/internal/entity"
	"github.com/soujanyavullam/epic-web-app/internal/repository/contract"
	"github.com/soujanyavullam/epic-web-app/internal/repository/specification"
)

type BookChunkRepository struct {
	mu     sync.RWMutex
	chunks []*entity.BookChunk
}

func NewBookChunkRepository() *BookChunkRepository {
	return &BookChunkRepository{}
}

func (r *BookChunkRepository) Create(ctx context.Context, chunk *entity.BookChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chunk.Id == uuid.Nil {
		chunk.Id = uuid.New()
	}
	clone := *chunk
	r.chunks = append(r.chunks, &clone)
	return nil
}

func (r *BookChunkRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BookChunk, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *BookChunkRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BookChunk, error) {
	r.mu.RLock()
	var out []*entity.BookChunk
	for _, c := range r.chunks {
		if matchChunk(c, specs) {
			clone := *c
			out = append(out, &clone)
		}
	}
	r.mu.RUnlock()

	for _, spec := range specs {
		if s, ok := spec.(specification.OrderBy); ok && s.Field == "chunk_index" {
			sort.SliceStable(out, func(i, j int) bool {
				if s.Desc {
					return out[i].ChunkIndex > out[j].ChunkIndex
				}
				return out[i].ChunkIndex < out[j].ChunkIndex
			})
		}
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.Limit); ok && len(out) > s.N {
			out = out[:s.N]
		}
	}
	return out, nil
}

func (r *BookChunkRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func matchChunk(c *entity.BookChunk, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if c.Id != s.ID {
				return false
			}
		case specification.ByBookTitle:
			if c.BookTitle != s.BookTitle {
				return false
			}
		case specification.ByChunkIDs:
			found := false
			for _, id := range s.ChunkIDs {
				if c.ChunkID == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case specification.Embedded:
			if c.Embedding == nil {
				return false
			}
		}
	}
	return true
}

var _ contract.BookChunkRepository = (*BookChunkRepository)(nil)
