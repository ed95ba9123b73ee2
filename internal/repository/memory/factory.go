package memory

import (
	"context"

	"github.com/soujanyavullam/epic-web-app/internal/repository/contract"
	"github.com/soujanyavullam/epic-web-app/internal/repository/unitofwork"
)

// Factory hands out units of work that share one in-memory dataset.
// No real transactions: Begin/Commit/Rollback are no-ops.
type Factory struct {
	Books  *BookRepository
	Chunks *BookChunkRepository
}

func NewFactory() *Factory {
	return &Factory{
		Books:  NewBookRepository(),
		Chunks: NewBookChunkRepository(),
	}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memoryUnitOfWork{factory: f}
}

type memoryUnitOfWork struct {
	factory *Factory
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *memoryUnitOfWork) Commit() error                   { return nil }
func (u *memoryUnitOfWork) Rollback() error                 { return nil }

func (u *memoryUnitOfWork) BookRepository() contract.BookRepository {
	return u.factory.Books
}

func (u *memoryUnitOfWork) BookChunkRepository() contract.BookChunkRepository {
	return u.factory.Chunks
}

var _ unitofwork.RepositoryFactory = (*Factory)(nil)
