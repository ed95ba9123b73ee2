package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soujanyavullam/epic-web-app/internal/entity"
	"github.com/soujanyavullam/epic-web-app/internal/mapper"
	"github.com/soujanyavullam/epic-web-app/internal/model"
	"github.com/soujanyavullam/epic-web-app/internal/repository/contract"
	"github.com/soujanyavullam/epic-web-app/internal/repository/specification"
)

type BookChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookChunkMapper
}

func NewBookChunkRepository(db *gorm.DB) contract.BookChunkRepository {
	return &BookChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookChunkMapper(),
	}
}

func (r *BookChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.BookChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BookChunk, error) {
	var m model.BookChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BookChunk, error) {
	var models []*model.BookChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.BookChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
