package retrieval

import (
	"context"
	"fmt"
	"time"

	"joslyn-advocacy-be/internal/metrics"
	"joslyn-advocacy-be/internal/pkg/logger"
	"joslyn-advocacy-be/internal/repository/contract"
	"joslyn-advocacy-be/pkg/embedding"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SpanSearcher is the slice of the span store the retriever needs. Both
// queries return results best-first, capped at limit.
type SpanSearcher interface {
	SearchLexical(ctx context.Context, childId uuid.UUID, query string, limit int) ([]*contract.ScoredSpan, error)
	SearchSimilarWithScore(ctx context.Context, childId uuid.UUID, embedding []float32, limit int) ([]*contract.ScoredSpan, error)
}

// Config encapsulates retrieval parameters
type Config struct {
	Top            int // fused spans returned per call
	CandidateLimit int // per-signal cap before fusion
	RRFK           int // reciprocal rank fusion smoothing constant
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		Top:            12,
		CandidateLimit: 30,
		RRFK:           60,
	}
}

// Retriever blends lexical and vector relevance over one child's corpus into
// a single fused ranking. It is stateless and safe for concurrent use.
type Retriever struct {
	spans             SpanSearcher
	embeddingProvider embedding.EmbeddingProvider
	config            Config
	logger            logger.ILogger
}

func NewRetriever(
	spans SpanSearcher,
	embeddingProvider embedding.EmbeddingProvider,
	config Config,
	log logger.ILogger,
) *Retriever {
	if config.Top <= 0 {
		config.Top = DefaultConfig().Top
	}
	if config.CandidateLimit <= 0 {
		config.CandidateLimit = DefaultConfig().CandidateLimit
	}
	if config.RRFK <= 0 {
		config.RRFK = DefaultConfig().RRFK
	}
	return &Retriever{
		spans:             spans,
		embeddingProvider: embeddingProvider,
		config:            config,
		logger:            log,
	}
}

// Retrieve returns up to top fused spans for the query, most relevant first,
// with no duplicate span ids. An empty corpus yields an empty slice and nil
// error; callers must treat that as "insufficient evidence", not a failure.
//
// The lexical round-trip and the embedding+vector round-trip have no data
// dependency, so they run concurrently; the fused output is identical to
// sequential issuance. An embedding failure fails the whole call: degrading
// to lexical-only silently would change answer quality unpredictably.
func (r *Retriever) Retrieve(ctx context.Context, childId uuid.UUID, query string, top int) ([]FusedSpan, error) {
	if top <= 0 {
		top = r.config.Top
	}

	var lexical, vector []*contract.ScoredSpan

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		results, err := r.spans.SearchLexical(gctx, childId, query, r.config.CandidateLimit)
		if err != nil {
			metrics.IncError("lexical")
			return fmt.Errorf("lexical search failed: %w", err)
		}
		metrics.ObservePhase("lexical", start)
		lexical = results
		return nil
	})

	g.Go(func() error {
		embedStart := time.Now()
		embeddingRes, err := r.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
		if err != nil {
			metrics.IncError("embedding")
			return fmt.Errorf("embedding generation failed: %w", err)
		}
		metrics.ObservePhase("embedding", embedStart)

		vectorStart := time.Now()
		results, err := r.spans.SearchSimilarWithScore(gctx, childId, embeddingRes.Embedding.Values, r.config.CandidateLimit)
		if err != nil {
			metrics.IncError("vector")
			return fmt.Errorf("vector search failed: %w", err)
		}
		metrics.ObservePhase("vector", vectorStart)
		vector = results
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	fuseStart := time.Now()
	fused := Fuse(lexical, vector, r.config.RRFK, top)
	metrics.ObservePhase("fuse", fuseStart)
	metrics.ObserveFusedResults(len(fused))

	if r.logger != nil {
		r.logger.Debug("retrieval", "Fused retrieval results", map[string]interface{}{
			"child_id": childId.String(),
			"lexical":  len(lexical),
			"vector":   len(vector),
			"fused":    len(fused),
		})
	}

	return fused, nil
}
