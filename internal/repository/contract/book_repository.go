package contract

import (
	"context"

	"github.com/soujanyavullam/epic-web-app/internal/entity"
	"github.com/soujanyavullam/epic-web-app/internal/repository/specification"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	Update(ctx context.Context, book *entity.Book) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
