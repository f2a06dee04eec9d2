package retrieval

import (
	"context"
	"errors"
	"testing"

	"joslyn-advocacy-be/internal/repository/contract"
	"joslyn-advocacy-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeSearcher struct {
	lexical    []*contract.ScoredSpan
	vector     []*contract.ScoredSpan
	lexicalErr error
	vectorErr  error
}

func (f *fakeSearcher) SearchLexical(ctx context.Context, childId uuid.UUID, query string, limit int) ([]*contract.ScoredSpan, error) {
	if f.lexicalErr != nil {
		return nil, f.lexicalErr
	}
	return f.lexical, nil
}

func (f *fakeSearcher) SearchSimilarWithScore(ctx context.Context, childId uuid.UUID, emb []float32, limit int) ([]*contract.ScoredSpan, error) {
	if f.vectorErr != nil {
		return nil, f.vectorErr
	}
	return f.vector, nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

func TestRetrieveEmptyCorpusIsNotAnError(t *testing.T) {
	r := NewRetriever(&fakeSearcher{}, &fakeEmbedder{}, DefaultConfig(), nil)

	fused, err := r.Retrieve(context.Background(), uuid.New(), "speech therapy minutes", 0)

	assert.NoError(t, err)
	assert.Empty(t, fused)
}

func TestRetrieveFusesBothSignalsWithoutDuplicates(t *testing.T) {
	shared := testSpan(1, "IEP 2025")
	lexOnly := testSpan(2, "IEP 2025")
	vecOnly := testSpan(3, "Eval Report")

	searcher := &fakeSearcher{
		lexical: []*contract.ScoredSpan{scored(shared, 0.9), scored(lexOnly, 0.4)},
		vector:  []*contract.ScoredSpan{scored(shared, 0.8), scored(vecOnly, 0.6)},
	}
	r := NewRetriever(searcher, &fakeEmbedder{}, DefaultConfig(), nil)

	fused, err := r.Retrieve(context.Background(), uuid.New(), "speech therapy minutes", 0)

	assert.NoError(t, err)
	assert.Len(t, fused, 3)
	// Shared span got contributions from both lists, so it ranks first.
	assert.Equal(t, shared.Id, fused[0].Span.Id)

	seen := make(map[uuid.UUID]bool)
	for _, f := range fused {
		assert.False(t, seen[f.Span.Id], "duplicate span id in fused output")
		seen[f.Span.Id] = true
	}
}

func TestRetrieveHonorsTopOverride(t *testing.T) {
	var lexical []*contract.ScoredSpan
	for i := 1; i <= 20; i++ {
		lexical = append(lexical, scored(testSpan(i, "doc"), float64(20-i)))
	}
	r := NewRetriever(&fakeSearcher{lexical: lexical}, &fakeEmbedder{}, DefaultConfig(), nil)

	fused, err := r.Retrieve(context.Background(), uuid.New(), "placement", 5)

	assert.NoError(t, err)
	assert.Len(t, fused, 5)
}

func TestRetrieveEmbeddingFailureIsFatal(t *testing.T) {
	searcher := &fakeSearcher{
		lexical: []*contract.ScoredSpan{scored(testSpan(1, "doc"), 0.5)},
	}
	embedErr := errors.New("quota exhausted")
	r := NewRetriever(searcher, &fakeEmbedder{err: embedErr}, DefaultConfig(), nil)

	fused, err := r.Retrieve(context.Background(), uuid.New(), "placement", 0)

	// No silent degradation to lexical-only.
	assert.Nil(t, fused)
	assert.ErrorIs(t, err, embedErr)
}

func TestRetrieveStoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection refused")

	r := NewRetriever(&fakeSearcher{lexicalErr: storeErr}, &fakeEmbedder{}, DefaultConfig(), nil)
	_, err := r.Retrieve(context.Background(), uuid.New(), "placement", 0)
	assert.ErrorIs(t, err, storeErr)

	r = NewRetriever(&fakeSearcher{vectorErr: storeErr}, &fakeEmbedder{}, DefaultConfig(), nil)
	_, err = r.Retrieve(context.Background(), uuid.New(), "placement", 0)
	assert.ErrorIs(t, err, storeErr)
}
