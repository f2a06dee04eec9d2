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
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentSpanRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentSpanMapper
}

func NewDocumentSpanRepository(db *gorm.DB) contract.DocumentSpanRepository {
	return &DocumentSpanRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentSpanMapper(),
	}
}

func (r *DocumentSpanRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentSpanRepositoryImpl) Create(ctx context.Context, span *entity.DocumentSpan) error {
	m := r.mapper.ToModel(span)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*span = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentSpanRepositoryImpl) CreateBulk(ctx context.Context, spans []*entity.DocumentSpan) error {
	if len(spans) == 0 {
		return nil
	}
	models := r.mapper.ToModels(spans)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	// Write generated IDs back to the entities
	for i, m := range models {
		*spans[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentSpanRepositoryImpl) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	return r.db.WithContext(ctx).
		Model(&model.DocumentSpan{}).
		Where("id = ?", id).
		Update("embedding", pgvector.NewVector(embedding)).Error
}

func (r *DocumentSpanRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DocumentSpan{}, id).Error
}

func (r *DocumentSpanRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.DocumentSpan{}).Error
}

func (r *DocumentSpanRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentSpan, error) {
	var m model.DocumentSpan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentSpanRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentSpan, error) {
	var models []*model.DocumentSpan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentSpanRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.DocumentSpan{}).Count(&count).Error
	return count, err
}

// scoredSpanRow carries one span plus its doc name and relevance score out of
// the raw search queries.
type scoredSpanRow struct {
	model.DocumentSpan
	DocName string
	Score   float64
}

// SearchLexical ranks spans by Postgres full-text relevance. The
// search_vector column is a stored generated tsvector over content;
// websearch_to_tsquery keeps user queries safe to pass through verbatim.
func (r *DocumentSpanRepositoryImpl) SearchLexical(ctx context.Context, childId uuid.UUID, query string, limit int) ([]*contract.ScoredSpan, error) {
	if limit <= 0 {
		limit = 30
	}

	var rows []scoredSpanRow
	err := r.db.WithContext(ctx).
		Table("document_spans").
		Select("document_spans.*, documents.name AS doc_name, ts_rank_cd(document_spans.search_vector, websearch_to_tsquery('english', ?)) AS score", query).
		Joins("JOIN documents ON documents.id = document_spans.document_id").
		Where("documents.child_id = ?", childId).
		Where("document_spans.search_vector @@ websearch_to_tsquery('english', ?)", query).
		Where("document_spans.deleted_at IS NULL").
		Where("documents.deleted_at IS NULL").
		Order("score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return r.toScoredSpans(rows), nil
}

// SearchSimilarWithScore ranks spans by cosine similarity to the query
// embedding. Cosine distance in pgvector is 1 - similarity, so the select
// inverts it to keep "higher = more relevant" across both search paths.
func (r *DocumentSpanRepositoryImpl) SearchSimilarWithScore(ctx context.Context, childId uuid.UUID, embedding []float32, limit int) ([]*contract.ScoredSpan, error) {
	if limit <= 0 {
		limit = 30
	}

	queryVector := pgvector.NewVector(embedding)

	var rows []scoredSpanRow
	err := r.db.WithContext(ctx).
		Table("document_spans").
		Select("document_spans.*, documents.name AS doc_name, 1 - (document_spans.embedding <=> ?) AS score", queryVector).
		Joins("JOIN documents ON documents.id = document_spans.document_id").
		Where("documents.child_id = ?", childId).
		Where("document_spans.embedding IS NOT NULL").
		Where("document_spans.deleted_at IS NULL").
		Where("documents.deleted_at IS NULL").
		Order("score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return r.toScoredSpans(rows), nil
}

func (r *DocumentSpanRepositoryImpl) toScoredSpans(rows []scoredSpanRow) []*contract.ScoredSpan {
	scored := make([]*contract.ScoredSpan, len(rows))
	for i, row := range rows {
		span := r.mapper.ToEntity(&row.DocumentSpan)
		span.DocName = row.DocName
		scored[i] = &contract.ScoredSpan{
			Span:  span,
			Score: row.Score,
		}
	}
	return scored
}
