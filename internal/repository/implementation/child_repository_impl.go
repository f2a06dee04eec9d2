package implementation

import (
	"context"
	"errors"

	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/mapper"
	"joslyn-advocacy-be/internal/model"
	"joslyn-advocacy-be/internal/repository/contract"
	"joslyn-advocacy-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChildRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChildMapper
}

func NewChildRepository(db *gorm.DB) contract.ChildRepository {
	return &ChildRepositoryImpl{
		db:     db,
		mapper: mapper.NewChildMapper(),
	}
}

func (r *ChildRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChildRepositoryImpl) Create(ctx context.Context, child *entity.Child) error {
	m := r.mapper.ToModel(child)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*child = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChildRepositoryImpl) Update(ctx context.Context, child *entity.Child) error {
	m := r.mapper.ToModel(child)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*child = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChildRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Child{}, id).Error
}

func (r *ChildRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Child, error) {
	var m model.Child
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChildRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Child, error) {
	var models []*model.Child
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChildRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Child{}).Count(&count).Error
	return count, err
}
