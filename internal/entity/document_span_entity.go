package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentSpan is one retrievable unit of evidence: a contiguous block of
// extracted text with page and document provenance. Spans are written once
// during ingestion and never mutated afterwards; retrieval only reads them.
type DocumentSpan struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	DocName    string // denormalized from the owning document for display
	Page       int    // 1-based page number
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
