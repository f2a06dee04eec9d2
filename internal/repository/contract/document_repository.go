package contract

import (
	"context"

	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// TagsByChildId returns the tag sets of all live documents in the child's
	// corpus, keyed by document id. Untagged documents map to an empty slice.
	TagsByChildId(ctx context.Context, childId uuid.UUID) (map[uuid.UUID][]string, error)
}
