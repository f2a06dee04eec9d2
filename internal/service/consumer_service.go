package service

import (
	"context"
	"encoding/json"
	"log"

	"joslyn-advocacy-be/internal/dto"
	"joslyn-advocacy-be/internal/repository/specification"
	"joslyn-advocacy-be/internal/repository/unitofwork"
	"joslyn-advocacy-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage backfills embeddings for every span of the document named in
// the message. Spans are immutable to readers; the embedding column is the
// only thing that changes after ingestion.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedSpansMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // malformed payloads would retry forever
		return
	}

	log.Printf("[INFO] Embedding spans for DocumentId: %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if document == nil {
		log.Printf("[WARN] Document not found (deleted before embedding?): %s", payload.DocumentId)
		msg.Ack()
		return
	}

	spans, err := uow.DocumentSpanRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: payload.DocumentId},
	)
	if err != nil {
		log.Printf("[ERROR] Failed to load spans for document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}

	embedded := 0
	for _, span := range spans {
		if len(span.Embedding) > 0 {
			continue // already backfilled on a previous attempt
		}

		res, err := cs.embeddingProvider.Generate(span.Content, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to embed span %s of document %s: %v", span.Id, payload.DocumentId, err)
			msg.Nack()
			return
		}

		if err := uow.DocumentSpanRepository().UpdateEmbedding(ctx, span.Id, res.Embedding.Values); err != nil {
			log.Printf("[ERROR] Failed to store embedding for span %s: %v", span.Id, err)
			msg.Nack()
			return
		}
		embedded++
	}

	log.Printf("[SUCCESS] Document %s: %d/%d spans embedded", payload.DocumentId, embedded, len(spans))
	msg.Ack()
}
