package retrieval

import (
	"sort"

	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/repository/contract"
)

// FusedSpan is a span annotated with its reciprocal-rank-fused relevance
// score. LexScore and VecScore keep the raw per-signal scores when the span
// appeared in the corresponding result list.
type FusedSpan struct {
	Span     *entity.DocumentSpan
	Score    float64
	LexScore *float64
	VecScore *float64
}

// Fuse combines the lexical and vector result lists with Reciprocal Rank
// Fusion: each span accumulates 1/(k+rank) per list it appears in, with ranks
// 1-indexed. A span present in both lists is merged into one record and gets
// both contributions, which rewards cross-signal agreement. RRF works on
// ranks, not raw scores, so ts_rank_cd values and cosine similarities never
// need to share a scale.
//
// Results are ordered by fused score descending; ties break by ascending span
// id so the output is deterministic for a fixed input. At most top spans are
// returned (fewer when fewer candidates exist).
func Fuse(lexical, vector []*contract.ScoredSpan, k, top int) []FusedSpan {
	if k <= 0 {
		k = 60
	}

	acc := make(map[string]*FusedSpan, len(lexical)+len(vector))

	for rank, scored := range lexical {
		if scored == nil || scored.Span == nil {
			continue
		}
		fused := ensure(acc, scored.Span)
		fused.Score += 1.0 / float64(k+rank+1)
		lex := scored.Score
		fused.LexScore = &lex
	}

	for rank, scored := range vector {
		if scored == nil || scored.Span == nil {
			continue
		}
		fused := ensure(acc, scored.Span)
		fused.Score += 1.0 / float64(k+rank+1)
		vec := scored.Score
		fused.VecScore = &vec
	}

	out := make([]FusedSpan, 0, len(acc))
	for _, fused := range acc {
		out = append(out, *fused)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Span.Id.String() < out[j].Span.Id.String()
	})

	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}

func ensure(acc map[string]*FusedSpan, span *entity.DocumentSpan) *FusedSpan {
	key := span.Id.String()
	if fused, ok := acc[key]; ok {
		return fused
	}
	fused := &FusedSpan{Span: span}
	acc[key] = fused
	return fused
}
