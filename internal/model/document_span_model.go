package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// DocumentSpan also carries a Postgres tsvector column `search_vector`,
// generated from `content` by cmd/migrate. GORM never maps it; the lexical
// search queries reference it directly.
type DocumentSpan struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID       `gorm:"type:uuid;not null;index"`
	Page       int             `gorm:"not null;default:1"`
	Content    string          `gorm:"type:text;not null"`
	// Embedding is NULL until the backfill worker runs; a pointer keeps the
	// insert from writing an empty vector literal.
	Embedding *pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 / nomic-embed-text
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt  `gorm:"index"`
}

func (DocumentSpan) TableName() string {
	return "document_spans"
}
