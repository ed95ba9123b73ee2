package unitofwork

import (
	"context"

	"github.com/soujanyavullam/epic-web-app/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BookRepository() contract.BookRepository
	BookChunkRepository() contract.BookChunkRepository
}
