package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is an ingested source file (IEP, evaluation report, notice...).
// Tags classify the document kind and drive the optional citation tag filter.
type Document struct {
	Id        uuid.UUID
	ChildId   uuid.UUID
	Name      string
	DocType   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
