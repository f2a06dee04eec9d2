package retrieval

import (
	"fmt"
	"testing"

	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testSpan(n int, docName string) *entity.DocumentSpan {
	return &entity.DocumentSpan{
		Id:         uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n)),
		DocumentId: uuid.MustParse("10000000-0000-0000-0000-000000000001"),
		DocName:    docName,
		Page:       1,
		Content:    fmt.Sprintf("span %d", n),
	}
}

func scored(span *entity.DocumentSpan, score float64) *contract.ScoredSpan {
	return &contract.ScoredSpan{Span: span, Score: score}
}

func TestFuseRewardsCrossSignalAgreement(t *testing.T) {
	a := testSpan(1, "doc")
	b := testSpan(2, "doc")
	c := testSpan(3, "doc")

	// L = [A, B, C], V = [B, A, C] with k=60:
	// score(A) = 1/61 + 1/62 = score(B), score(C) = 2/63
	lexical := []*contract.ScoredSpan{scored(a, 0.9), scored(b, 0.5), scored(c, 0.1)}
	vector := []*contract.ScoredSpan{scored(b, 0.8), scored(a, 0.7), scored(c, 0.2)}

	fused := Fuse(lexical, vector, 60, 10)

	assert.Len(t, fused, 3)
	assert.Equal(t, fused[0].Score, fused[1].Score)
	assert.Greater(t, fused[1].Score, fused[2].Score)
	assert.Equal(t, c.Id, fused[2].Span.Id)

	expected := 1.0/61 + 1.0/62
	assert.InDelta(t, expected, fused[0].Score, 1e-12)
}

func TestFuseMergesDuplicateIdsKeepingBothSignals(t *testing.T) {
	a := testSpan(1, "doc")
	b := testSpan(2, "doc")

	lexical := []*contract.ScoredSpan{scored(a, 0.42), scored(b, 0.41)}
	vector := []*contract.ScoredSpan{scored(a, 0.88)}

	fused := Fuse(lexical, vector, 60, 10)

	assert.Len(t, fused, 2)
	assert.Equal(t, a.Id, fused[0].Span.Id)
	if assert.NotNil(t, fused[0].LexScore) {
		assert.Equal(t, 0.42, *fused[0].LexScore)
	}
	if assert.NotNil(t, fused[0].VecScore) {
		assert.Equal(t, 0.88, *fused[0].VecScore)
	}
	assert.Nil(t, fused[1].VecScore)
}

func TestFuseDeterministicTieBreakBySpanId(t *testing.T) {
	// Two spans at rank 1 of disjoint lists always tie on score.
	first := testSpan(1, "doc")
	second := testSpan(2, "doc")

	lexical := []*contract.ScoredSpan{scored(second, 0.3)}
	vector := []*contract.ScoredSpan{scored(first, 0.3)}

	for i := 0; i < 20; i++ {
		fused := Fuse(lexical, vector, 60, 10)
		assert.Equal(t, first.Id, fused[0].Span.Id)
		assert.Equal(t, second.Id, fused[1].Span.Id)
	}
}

func TestFuseNeverExceedsTop(t *testing.T) {
	var lexical, vector []*contract.ScoredSpan
	for i := 1; i <= 30; i++ {
		lexical = append(lexical, scored(testSpan(i, "doc"), float64(30-i)))
	}
	for i := 31; i <= 60; i++ {
		vector = append(vector, scored(testSpan(i, "doc"), float64(60-i)))
	}

	fused := Fuse(lexical, vector, 60, 12)
	assert.Len(t, fused, 12)
}

func TestFuseReturnsAllWhenFewerThanTop(t *testing.T) {
	lexical := []*contract.ScoredSpan{scored(testSpan(1, "doc"), 0.6)}
	vector := []*contract.ScoredSpan{scored(testSpan(2, "doc"), 0.5)}

	fused := Fuse(lexical, vector, 60, 12)
	assert.Len(t, fused, 2)
}

func TestFuseEmptyInputs(t *testing.T) {
	fused := Fuse(nil, nil, 60, 12)
	assert.Empty(t, fused)
}
