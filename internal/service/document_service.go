package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"joslyn-advocacy-be/internal/dto"
	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/repository/specification"
	"joslyn-advocacy-be/internal/repository/unitofwork"
	"joslyn-advocacy-be/pkg/events"
	pktNats "joslyn-advocacy-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tagCacheTTL = 5 * time.Minute

type IDocumentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID, childId uuid.UUID) ([]*dto.ListDocumentsResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	// TagsByChild returns tag sets for all live documents in the child's
	// corpus, keyed by document id. Backed by a short-lived Redis cache.
	TagsByChild(ctx context.Context, childId uuid.UUID) (map[uuid.UUID][]string, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	rdb              *redis.Client
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	rdb *redis.Client,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		rdb:              rdb,
	}
}

// verifyChildOwnership resolves the child and confirms it belongs to the
// user. Returns nil without error when the child is missing or foreign.
func (c *documentService) verifyChildOwnership(ctx context.Context, uow unitofwork.UnitOfWork, userId, childId uuid.UUID) (*entity.Child, error) {
	return uow.ChildRepository().FindOne(ctx,
		specification.ByID{ID: childId},
		specification.ChildOwnedByUser{UserID: userId},
	)
}

func (c *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	child, err := c.verifyChildOwnership(ctx, uow, userId, req.ChildId)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil
	}

	now := time.Now()
	document := entity.Document{
		Id:        uuid.New(),
		ChildId:   req.ChildId,
		Name:      req.Name,
		DocType:   req.DocType,
		Tags:      req.Tags,
		CreatedAt: now,
	}

	spans := make([]*entity.DocumentSpan, 0, len(req.Spans))
	for _, payload := range req.Spans {
		spans = append(spans, &entity.DocumentSpan{
			Id:         uuid.New(),
			DocumentId: document.Id,
			DocName:    document.Name,
			Page:       payload.Page,
			Content:    payload.Content,
			CreatedAt:  now,
		})
	}

	// Document and spans land together or not at all.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}
	if err := uow.DocumentSpanRepository().CreateBulk(ctx, spans); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishEmbedSpansMessage{DocumentId: document.Id}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := c.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	// Notification event is auxiliary; failures are logged, not returned.
	if c.eventPublisher != nil {
		if err := c.eventPublisher.Publish(ctx, events.DocumentIngested(document.Id, len(spans))); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_INGESTED event: %v", err)
		}
	}

	c.invalidateTagCache(ctx, req.ChildId)

	return &dto.CreateDocumentResponse{
		Id:        document.Id,
		SpanCount: len(spans),
	}, nil
}

func (c *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil
	}

	child, err := c.verifyChildOwnership(ctx, uow, userId, document.ChildId)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil // foreign corpus: behave as not found
	}

	spanCount, err := uow.DocumentSpanRepository().Count(ctx,
		specification.ByDocumentID{DocumentID: document.Id},
	)
	if err != nil {
		return nil, err
	}

	return &dto.ShowDocumentResponse{
		Id:        document.Id,
		ChildId:   document.ChildId,
		Name:      document.Name,
		DocType:   document.DocType,
		Tags:      document.Tags,
		SpanCount: int(spanCount),
		CreatedAt: document.CreatedAt,
		UpdatedAt: document.UpdatedAt,
	}, nil
}

func (c *documentService) List(ctx context.Context, userId uuid.UUID, childId uuid.UUID) ([]*dto.ListDocumentsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	child, err := c.verifyChildOwnership(ctx, uow, userId, childId)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByChildID{ChildID: childId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ListDocumentsResponse, 0, len(documents))
	for _, document := range documents {
		res = append(res, &dto.ListDocumentsResponse{
			Id:        document.Id,
			Name:      document.Name,
			DocType:   document.DocType,
			Tags:      document.Tags,
			CreatedAt: document.CreatedAt,
		})
	}
	return res, nil
}

func (c *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if document == nil {
		return nil
	}

	child, err := c.verifyChildOwnership(ctx, uow, userId, document.ChildId)
	if err != nil {
		return err
	}
	if child == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentSpanRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	c.invalidateTagCache(ctx, document.ChildId)
	return nil
}

func (c *documentService) TagsByChild(ctx context.Context, childId uuid.UUID) (map[uuid.UUID][]string, error) {
	cacheKey := tagCacheKey(childId)

	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var tags map[uuid.UUID][]string
			if err := json.Unmarshal(cached, &tags); err == nil {
				return tags, nil
			}
			// fall through to the database on a corrupt entry
		}
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	tags, err := uow.DocumentRepository().TagsByChildId(ctx, childId)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		if encoded, err := json.Marshal(tags); err == nil {
			if err := c.rdb.Set(ctx, cacheKey, encoded, tagCacheTTL).Err(); err != nil {
				log.Printf("[WARN] Failed to cache document tags for child %s: %v", childId, err)
			}
		}
	}

	return tags, nil
}

func (c *documentService) invalidateTagCache(ctx context.Context, childId uuid.UUID) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, tagCacheKey(childId)).Err(); err != nil {
		log.Printf("[WARN] Failed to invalidate tag cache for child %s: %v", childId, err)
	}
}

func tagCacheKey(childId uuid.UUID) string {
	return fmt.Sprintf("doc_tags:%s", childId)
}
