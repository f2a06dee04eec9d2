package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the contract for everything published on the event bus.
type Event interface {
	// EventType returns the event's unique code (e.g. "ANSWER_GENERATED").
	EventType() string

	// Payload returns the data carried by the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// AnswerGenerated is emitted after a grounded answer is produced for a
// child's corpus.
func AnswerGenerated(childId uuid.UUID, question string, citationCount int) Event {
	return BaseEvent{
		Type: "ANSWER_GENERATED",
		Data: map[string]interface{}{
			"child_id":       childId.String(),
			"question":       question,
			"citation_count": citationCount,
		},
		OccurredAt: time.Now(),
	}
}

// DocumentIngested is emitted once a document's spans are persisted and
// queued for embedding.
func DocumentIngested(documentId uuid.UUID, spanCount int) Event {
	return BaseEvent{
		Type: "DOCUMENT_INGESTED",
		Data: map[string]interface{}{
			"document_id": documentId.String(),
			"span_count":  spanCount,
		},
		OccurredAt: time.Now(),
	}
}
