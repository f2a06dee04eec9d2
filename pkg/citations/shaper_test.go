package citations

import (
	"fmt"
	"testing"

	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/pkg/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var (
	docA = uuid.MustParse("10000000-0000-0000-0000-00000000000a")
	docB = uuid.MustParse("10000000-0000-0000-0000-00000000000b")
	docC = uuid.MustParse("10000000-0000-0000-0000-00000000000c")
)

func fusedSpan(n int, docId uuid.UUID, docName string, page int) retrieval.FusedSpan {
	return retrieval.FusedSpan{
		Span: &entity.DocumentSpan{
			Id:         uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n)),
			DocumentId: docId,
			DocName:    docName,
			Page:       page,
			Content:    fmt.Sprintf("span %d text", n),
		},
	}
}

func countSpans(groups []CitationGroup) int {
	total := 0
	for _, g := range groups {
		total += len(g.Spans)
	}
	return total
}

func TestFilterByDocumentTags(t *testing.T) {
	spans := []retrieval.FusedSpan{
		fusedSpan(1, docA, "IEP 2025", 1),
		fusedSpan(2, docB, "Eval Report", 2),
		fusedSpan(3, docC, "Untagged Letter", 3),
	}
	lookup := map[uuid.UUID][]string{
		docA: {"iep"},
		docB: {"eval_report"},
		docC: {},
	}

	t.Run("empty allow list disables filtering", func(t *testing.T) {
		out := FilterByDocumentTags(spans, lookup, nil, false)
		assert.Equal(t, spans, out)
	})

	t.Run("any-of keeps matching documents only", func(t *testing.T) {
		out := FilterByDocumentTags(spans, lookup, []string{"iep"}, false)
		assert.Len(t, out, 1)
		assert.Equal(t, docA, out[0].Span.DocumentId)
	})

	t.Run("untagged documents never survive", func(t *testing.T) {
		out := FilterByDocumentTags(spans, lookup, []string{"iep", "eval_report"}, false)
		assert.Len(t, out, 2)
		for _, f := range out {
			assert.NotEqual(t, docC, f.Span.DocumentId)
		}
	})

	t.Run("require all tags", func(t *testing.T) {
		multi := map[uuid.UUID][]string{
			docA: {"iep", "signed"},
			docB: {"iep"},
		}
		in := []retrieval.FusedSpan{
			fusedSpan(1, docA, "IEP 2025", 1),
			fusedSpan(2, docB, "Draft IEP", 2),
		}
		out := FilterByDocumentTags(in, multi, []string{"iep", "signed"}, true)
		assert.Len(t, out, 1)
		assert.Equal(t, docA, out[0].Span.DocumentId)
	})

	t.Run("order preserved", func(t *testing.T) {
		out := FilterByDocumentTags(spans, lookup, []string{"eval_report", "iep"}, false)
		assert.Equal(t, docA, out[0].Span.DocumentId)
		assert.Equal(t, docB, out[1].Span.DocumentId)
	})
}

func TestGroupCitationsPerDocumentCap(t *testing.T) {
	spans := []retrieval.FusedSpan{
		fusedSpan(1, docA, "IEP 2025", 3),
		fusedSpan(2, docA, "IEP 2025", 5),
		fusedSpan(3, docA, "IEP 2025", 7),
		fusedSpan(4, docA, "IEP 2025", 9),
	}

	groups := GroupCitations(spans, 2)

	assert.Len(t, groups, 1)
	assert.Len(t, groups[0].Spans, 2)
	// Pages only accumulate for kept spans.
	assert.Equal(t, []int{3, 5}, groups[0].Pages)
}

func TestGroupCitationsFirstSeenOrderAndName(t *testing.T) {
	// docA's spans are non-contiguous; its position and name are fixed by
	// the first occurrence.
	spans := []retrieval.FusedSpan{
		fusedSpan(1, docA, "IEP 2025 (final)", 5),
		fusedSpan(2, docB, "Eval Report", 1),
		fusedSpan(3, docA, "IEP 2025 (stale name)", 2),
	}

	groups := GroupCitations(spans, 2)

	assert.Len(t, groups, 2)
	assert.Equal(t, docA, groups[0].DocumentId)
	assert.Equal(t, "IEP 2025 (final)", groups[0].DocName)
	assert.Equal(t, docB, groups[1].DocumentId)
	assert.Equal(t, []int{2, 5}, groups[0].Pages)
}

func TestGroupCitationsDropsSpansWithoutDocument(t *testing.T) {
	orphan := retrieval.FusedSpan{
		Span: &entity.DocumentSpan{
			Id:   uuid.New(),
			Page: 1,
			// DocumentId left as uuid.Nil
		},
	}
	spans := []retrieval.FusedSpan{
		orphan,
		fusedSpan(1, docA, "IEP 2025", 1),
	}

	groups := GroupCitations(spans, 2)

	assert.Len(t, groups, 1)
	assert.Equal(t, docA, groups[0].DocumentId)
}

func TestGroupCitationsDeduplicatesPages(t *testing.T) {
	spans := []retrieval.FusedSpan{
		fusedSpan(1, docA, "IEP 2025", 4),
		fusedSpan(2, docA, "IEP 2025", 4),
	}

	groups := GroupCitations(spans, 2)
	assert.Equal(t, []int{4}, groups[0].Pages)
}

func TestEnforceCitationLimit(t *testing.T) {
	spans := []retrieval.FusedSpan{
		fusedSpan(1, docA, "IEP 2025", 1),
		fusedSpan(2, docA, "IEP 2025", 2),
		fusedSpan(3, docB, "Eval Report", 3),
		fusedSpan(4, docB, "Eval Report", 4),
		fusedSpan(5, docC, "Notice", 5),
	}
	groups := GroupCitations(spans, 2)

	t.Run("earlier groups kept intact, later group truncated", func(t *testing.T) {
		limited := EnforceCitationLimit(groups, 3)
		assert.Len(t, limited, 2)
		assert.Len(t, limited[0].Spans, 2)
		assert.Len(t, limited[1].Spans, 1)
		assert.Equal(t, []int{3}, limited[1].Pages)
		assert.Equal(t, 3, countSpans(limited))
	})

	t.Run("groups past the budget are dropped entirely", func(t *testing.T) {
		limited := EnforceCitationLimit(groups, 4)
		assert.Len(t, limited, 2)
		for _, g := range limited {
			assert.NotEqual(t, docC, g.DocumentId)
		}
	})

	t.Run("budget never exceeded", func(t *testing.T) {
		for maxTotal := 1; maxTotal <= 8; maxTotal++ {
			limited := EnforceCitationLimit(groups, maxTotal)
			assert.LessOrEqual(t, countSpans(limited), maxTotal)
		}
	})

	t.Run("non-positive budget yields empty list", func(t *testing.T) {
		assert.Empty(t, EnforceCitationLimit(groups, 0))
		assert.Empty(t, EnforceCitationLimit(groups, -1))
	})
}

func TestShapingIsIdempotent(t *testing.T) {
	spans := []retrieval.FusedSpan{
		fusedSpan(1, docA, "IEP 2025", 1),
		fusedSpan(2, docA, "IEP 2025", 2),
		fusedSpan(3, docB, "Eval Report", 3),
	}

	first := EnforceCitationLimit(GroupCitations(spans, 2), 6)
	second := EnforceCitationLimit(GroupCitations(spans, 2), 6)

	assert.Equal(t, first, second)
}

func TestSerializeCitationsRoundTrip(t *testing.T) {
	spans := []retrieval.FusedSpan{
		fusedSpan(1, docA, "IEP 2025", 3),
		fusedSpan(2, docA, "IEP 2025", 5),
		fusedSpan(3, docB, "Eval Report", 1),
	}
	groups := GroupCitations(spans, 2)

	serialized := SerializeCitations(groups)

	assert.Len(t, serialized, 2)
	assert.Equal(t, docA, serialized[0].DocumentId)
	assert.Equal(t, []int{3, 5}, serialized[0].Pages)
	assert.Equal(t, []string{"span 1 text", "span 2 text"}, serialized[0].Snippets)
	assert.Equal(t, []uuid.UUID{spans[0].Span.Id, spans[1].Span.Id}, serialized[0].SpanIds)
	assert.Equal(t, []string{"span 3 text"}, serialized[1].Snippets)
}

func TestNormalizeAndLimitEndToEnd(t *testing.T) {
	spans := []retrieval.FusedSpan{
		fusedSpan(1, docA, "IEP 2025", 3),
		fusedSpan(2, docA, "IEP 2025", 5),
		fusedSpan(3, docB, "Eval Report", 1),
	}

	groups := NormalizeAndLimit(spans, Options{MaxPerDocument: 2, MaxTotal: 6})

	assert.Len(t, groups, 2)
	assert.Equal(t, docA, groups[0].DocumentId)
	assert.Equal(t, []int{3, 5}, groups[0].Pages)
	assert.Len(t, groups[0].Spans, 2)
	assert.Equal(t, []int{1}, groups[1].Pages)
	assert.Equal(t, 3, countSpans(groups))
}

func TestNormalizeAndLimitAppliesDefaults(t *testing.T) {
	var spans []retrieval.FusedSpan
	for i := 1; i <= 5; i++ {
		spans = append(spans, fusedSpan(i, docA, "IEP 2025", i))
	}
	for i := 6; i <= 10; i++ {
		spans = append(spans, fusedSpan(i, docB, "Eval Report", i))
	}
	for i := 11; i <= 15; i++ {
		spans = append(spans, fusedSpan(i, docC, "Notice", i))
	}

	groups := NormalizeAndLimit(spans, Options{})

	for _, g := range groups {
		assert.LessOrEqual(t, len(g.Spans), DefaultMaxPerDocument)
	}
	assert.LessOrEqual(t, countSpans(groups), DefaultMaxTotal)
}
