package entity

import (
	"time"

	"github.com/google/uuid"
)

// Child is the corpus scope: every document (and so every span) belongs to
// exactly one child, and retrieval never crosses that boundary.
type Child struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
