package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"joslyn-advocacy-be/internal/dto"
	"joslyn-advocacy-be/internal/repository/specification"
	"joslyn-advocacy-be/internal/repository/unitofwork"
	"joslyn-advocacy-be/pkg/citations"
	"joslyn-advocacy-be/pkg/events"
	"joslyn-advocacy-be/pkg/llm"
	pktNats "joslyn-advocacy-be/pkg/nats"
	"joslyn-advocacy-be/pkg/retrieval"

	"github.com/google/uuid"
)

// noEvidenceAnswer is returned when the corpus has nothing relevant. The
// client distinguishes this from failure by Grounded=false with a 200.
const noEvidenceAnswer = "I couldn't find anything in this child's documents that answers that. " +
	"Try uploading the relevant document, or rephrase the question."

const answerSystemPrompt = `You are an assistant for parents navigating special education.
Answer the question using ONLY the numbered excerpts below. Every claim must
be supported by an excerpt; cite it inline as [1], [2], etc. If the excerpts
do not answer the question, say so plainly. Do not invent policy, dates, or
services that are not in the excerpts.`

type IAskService interface {
	Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error)
}

type askService struct {
	uowFactory      unitofwork.RepositoryFactory
	retriever       *retrieval.Retriever
	documentService IDocumentService
	llmProvider     llm.LLMProvider
	eventPublisher  *pktNats.Publisher
	maxPerDocument  int
	maxCitations    int
}

func NewAskService(
	uowFactory unitofwork.RepositoryFactory,
	retriever *retrieval.Retriever,
	documentService IDocumentService,
	llmProvider llm.LLMProvider,
	eventPublisher *pktNats.Publisher,
	maxPerDocument int,
	maxCitations int,
) IAskService {
	return &askService{
		uowFactory:      uowFactory,
		retriever:       retriever,
		documentService: documentService,
		llmProvider:     llmProvider,
		eventPublisher:  eventPublisher,
		maxPerDocument:  maxPerDocument,
		maxCitations:    maxCitations,
	}
}

func (c *askService) Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	child, err := uow.ChildRepository().FindOne(ctx,
		specification.ByID{ID: req.ChildId},
		specification.ChildOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil // Not found / foreign corpus
	}

	fused, err := c.retriever.Retrieve(ctx, req.ChildId, req.Question, req.Top)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	if len(fused) == 0 {
		return c.emptyAnswer(), nil
	}

	tagsByDoc, err := c.documentService.TagsByChild(ctx, req.ChildId)
	if err != nil {
		return nil, fmt.Errorf("tag lookup failed: %w", err)
	}

	groups := citations.NormalizeAndLimit(fused, citations.Options{
		TagsByDocument: tagsByDoc,
		AllowedTags:    req.AllowedTags,
		RequireAllTags: req.RequireAll,
		MaxPerDocument: c.maxPerDocument,
		MaxTotal:       c.maxCitations,
	})
	if len(groups) == 0 {
		// Everything was filtered out; still a grounded "no evidence" reply.
		return c.emptyAnswer(), nil
	}

	serialized := citations.SerializeCitations(groups)

	answer, err := c.llmProvider.Generate(ctx, buildAnswerPrompt(req.Question, serialized),
		llm.WithTemperature(0.2),
	)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	if c.eventPublisher != nil {
		if err := c.eventPublisher.Publish(ctx, events.AnswerGenerated(req.ChildId, req.Question, len(serialized))); err != nil {
			log.Printf("[WARN] Failed to publish ANSWER_GENERATED event: %v", err)
		}
	}

	res := &dto.AskResponse{
		Answer:    answer,
		Citations: make([]dto.CitationDTO, 0, len(serialized)),
		Grounded:  true,
	}
	for _, citation := range serialized {
		res.Citations = append(res.Citations, dto.CitationDTO{
			DocumentId: citation.DocumentId,
			DocName:    citation.DocName,
			Pages:      citation.Pages,
			SpanIds:    citation.SpanIds,
			Snippets:   citation.Snippets,
		})
	}
	return res, nil
}

func (c *askService) emptyAnswer() *dto.AskResponse {
	return &dto.AskResponse{
		Answer:    noEvidenceAnswer,
		Citations: []dto.CitationDTO{},
		Grounded:  false,
	}
}

func buildAnswerPrompt(question string, cited []citations.Citation) string {
	var sb strings.Builder
	sb.WriteString(answerSystemPrompt)
	sb.WriteString("\n\nExcerpts:\n")

	n := 1
	for _, citation := range cited {
		pages := make([]string, 0, len(citation.Pages))
		for _, page := range citation.Pages {
			pages = append(pages, fmt.Sprintf("%d", page))
		}
		label := citation.DocName
		if len(pages) > 0 {
			label = fmt.Sprintf("%s (pp. %s)", citation.DocName, strings.Join(pages, ", "))
		}
		for _, snippet := range citation.Snippets {
			fmt.Fprintf(&sb, "[%d] %s: %s\n", n, label, snippet)
			n++
		}
	}

	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}
