package contract

import (
	"context"

	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredSpan wraps a DocumentSpan with a single relevance score. For lexical
// search the score is the ts_rank_cd value; for vector search it is cosine
// similarity (1 - distance), both ordered descending (best first).
type ScoredSpan struct {
	Span  *entity.DocumentSpan
	Score float64
}

type DocumentSpanRepository interface {
	Create(ctx context.Context, span *entity.DocumentSpan) error
	CreateBulk(ctx context.Context, spans []*entity.DocumentSpan) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentSpan, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentSpan, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchLexical ranks the child's spans by full-text relevance against the
	// raw query text, best first, capped at limit.
	SearchLexical(ctx context.Context, childId uuid.UUID, query string, limit int) ([]*ScoredSpan, error)
	// SearchSimilarWithScore ranks the child's spans by cosine similarity to
	// the query embedding, best first, capped at limit.
	SearchSimilarWithScore(ctx context.Context, childId uuid.UUID, embedding []float32, limit int) ([]*ScoredSpan, error)
}
