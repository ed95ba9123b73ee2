package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/soujanyavullam/epic-web-app/internal/entity"
	"github.com/soujanyavullam/epic-web-app/internal/repository/contract"
	"github.com/soujanyavullam/epic-web-app/internal/repository/specification"
)

// BookRepository is an in-memory test double for contract.BookRepository.
// Specifications are matched by type switch; only the specs the services
// actually use are supported.
type BookRepository struct {
	mu    sync.RWMutex
	books []*entity.Book
}

func NewBookRepository() *BookRepository {
	return &BookRepository{}
}

func (r *BookRepository) Create(ctx context.Context, book *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if book.Id == uuid.Nil {
		book.Id = uuid.New()
	}
	clone := *book
	r.books = append(r.books, &clone)
	return nil
}

func (r *BookRepository) Update(ctx context.Context, book *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.books {
		if b.Id == book.Id {
			clone := *book
			r.books[i] = &clone
			return nil
		}
	}
	clone := *book
	r.books = append(r.books, &clone)
	return nil
}

func (r *BookRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *BookRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Book
	for _, b := range r.books {
		if matchBook(b, specs) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *BookRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func matchBook(b *entity.Book, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if b.Id != s.ID {
				return false
			}
		case specification.ByTitle:
			if b.Title != s.Title {
				return false
			}
		}
	}
	return true
}

var _ contract.BookRepository = (*BookRepository)(nil)
