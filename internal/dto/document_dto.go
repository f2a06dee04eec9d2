package dto

import (
	"time"

	"github.com/google/uuid"
)

type SpanPayload struct {
	Page    int    `json:"page" validate:"required,min=1"`
	Content string `json:"content" validate:"required"`
}

type CreateDocumentRequest struct {
	ChildId uuid.UUID     `json:"child_id" validate:"required"`
	Name    string        `json:"name" validate:"required"`
	DocType string        `json:"doc_type" validate:"required"`
	Tags    []string      `json:"tags,omitempty"`
	Spans   []SpanPayload `json:"spans" validate:"required,min=1,dive"`
}

type CreateDocumentResponse struct {
	Id        uuid.UUID `json:"id"`
	SpanCount int       `json:"span_count"`
}

type ShowDocumentResponse struct {
	Id        uuid.UUID  `json:"id"`
	ChildId   uuid.UUID  `json:"child_id"`
	Name      string     `json:"name"`
	DocType   string     `json:"doc_type"`
	Tags      []string   `json:"tags"`
	SpanCount int        `json:"span_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ListDocumentsResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	DocType   string    `json:"doc_type"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// PublishEmbedSpansMessage is the payload sent on the span-embedding topic
// after a document's spans are persisted.
type PublishEmbedSpansMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
