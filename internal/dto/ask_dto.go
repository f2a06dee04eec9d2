package dto

import (
	"github.com/google/uuid"
)

type AskRequest struct {
	ChildId     uuid.UUID `json:"child_id" validate:"required"`
	Question    string    `json:"question" validate:"required"`
	AllowedTags []string  `json:"allowed_tags,omitempty"`
	RequireAll  bool      `json:"require_all_tags,omitempty"`
	Top         int       `json:"top,omitempty" validate:"omitempty,min=1,max=50"`
}

type CitationDTO struct {
	DocumentId uuid.UUID   `json:"document_id"`
	DocName    string      `json:"doc_name"`
	Pages      []int       `json:"pages"`
	SpanIds    []uuid.UUID `json:"span_ids"`
	Snippets   []string    `json:"snippets"`
}

type AskResponse struct {
	Answer    string        `json:"answer"`
	Citations []CitationDTO `json:"citations"`
	Grounded  bool          `json:"grounded"` // false when no evidence was found
}
