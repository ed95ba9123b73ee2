package contract

import (
	"context"

	"github.com/soujanyavullam/epic-web-app/internal/entity"
	"github.com/soujanyavullam/epic-web-app/internal/repository/specification"
)

type BookChunkRepository interface {
	Create(ctx context.Context, chunk *entity.BookChunk) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BookChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BookChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
