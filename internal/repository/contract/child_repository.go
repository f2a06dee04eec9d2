package contract

import (
	"context"

	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChildRepository interface {
	Create(ctx context.Context, child *entity.Child) error
	Update(ctx context.Context, child *entity.Child) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Child, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Child, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
