package mapper

import (
	"time"

	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentSpanMapper struct{}

func NewDocumentSpanMapper() *DocumentSpanMapper {
	return &DocumentSpanMapper{}
}

func (m *DocumentSpanMapper) ToEntity(s *model.DocumentSpan) *entity.DocumentSpan {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var embeddingValues []float32
	if s.Embedding != nil {
		embeddingValues = s.Embedding.Slice()
	}

	return &entity.DocumentSpan{
		Id:         s.Id,
		DocumentId: s.DocumentId,
		Page:       s.Page,
		Content:    s.Content,
		Embedding:  embeddingValues,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  s.DeletedAt.Valid,
	}
}

func (m *DocumentSpanMapper) ToModel(s *entity.DocumentSpan) *model.DocumentSpan {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var embedding *pgvector.Vector
	if len(s.Embedding) > 0 {
		v := pgvector.NewVector(s.Embedding)
		embedding = &v
	}

	return &model.DocumentSpan{
		Id:         s.Id,
		DocumentId: s.DocumentId,
		Page:       s.Page,
		Content:    s.Content,
		Embedding:  embedding,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *DocumentSpanMapper) ToEntities(spans []*model.DocumentSpan) []*entity.DocumentSpan {
	entities := make([]*entity.DocumentSpan, len(spans))
	for i, s := range spans {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

func (m *DocumentSpanMapper) ToModels(spans []*entity.DocumentSpan) []*model.DocumentSpan {
	models := make([]*model.DocumentSpan, len(spans))
	for i, s := range spans {
		models[i] = m.ToModel(s)
	}
	return models
}
