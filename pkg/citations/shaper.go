// Package citations shapes ranked evidence spans into the bounded,
// per-document citation structure rendered next to a generated answer. All
// operations are pure functions over in-memory data: no I/O, no shared state,
// safe under any concurrency.
package citations

import (
	"sort"

	"joslyn-advocacy-be/pkg/retrieval"

	"github.com/google/uuid"
)

const (
	DefaultMaxPerDocument = 2
	DefaultMaxTotal       = 6
)

// CitationGroup bundles the spans kept for one source document. DocName and
// the group's position both follow the document's first (best-ranked) span;
// later spans from the same document never move or rename the group.
type CitationGroup struct {
	DocumentId uuid.UUID
	DocName    string
	Pages      []int // deduplicated, ascending, only for kept spans
	Spans      []retrieval.FusedSpan
}

// FilterByDocumentTags keeps the spans whose owning document carries at
// least one of the allowed tags, or all of them when requireAll is set. An
// empty allowed list disables filtering and returns the input unchanged. A
// document with no tags never survives a non-empty filter. Relative order is
// preserved.
func FilterByDocumentTags(spans []retrieval.FusedSpan, tagsByDoc map[uuid.UUID][]string, allowed []string, requireAll bool) []retrieval.FusedSpan {
	if len(allowed) == 0 {
		return spans
	}

	out := make([]retrieval.FusedSpan, 0, len(spans))
	for _, fused := range spans {
		if fused.Span == nil {
			continue
		}
		tags := tagsByDoc[fused.Span.DocumentId]
		if len(tags) == 0 {
			continue
		}

		tagSet := make(map[string]bool, len(tags))
		for _, tag := range tags {
			tagSet[tag] = true
		}

		if requireAll {
			keep := true
			for _, want := range allowed {
				if !tagSet[want] {
					keep = false
					break
				}
			}
			if keep {
				out = append(out, fused)
			}
		} else {
			for _, want := range allowed {
				if tagSet[want] {
					out = append(out, fused)
					break
				}
			}
		}
	}
	return out
}

// GroupCitations folds ranked spans (best first) into per-document groups,
// keeping at most maxPerDocument spans per group. Groups appear in the order
// their first span appeared, so fusion rank decides group order. Spans with
// a nil document id are silently dropped.
func GroupCitations(spans []retrieval.FusedSpan, maxPerDocument int) []CitationGroup {
	if maxPerDocument <= 0 {
		maxPerDocument = DefaultMaxPerDocument
	}

	groups := make([]CitationGroup, 0)
	index := make(map[uuid.UUID]int)

	for _, fused := range spans {
		if fused.Span == nil || fused.Span.DocumentId == uuid.Nil {
			continue
		}

		docId := fused.Span.DocumentId
		i, ok := index[docId]
		if !ok {
			i = len(groups)
			index[docId] = i
			groups = append(groups, CitationGroup{
				DocumentId: docId,
				DocName:    fused.Span.DocName, // first seen wins
			})
		}

		if len(groups[i].Spans) >= maxPerDocument {
			continue
		}
		groups[i].Spans = append(groups[i].Spans, fused)
		groups[i].Pages = mergePage(groups[i].Pages, fused.Span.Page)
	}

	return groups
}

// EnforceCitationLimit caps the total span count across all groups at
// maxTotal. Groups are consumed in order: whole groups while the budget
// lasts, then a truncated group (with its page list recomputed), then
// nothing — later groups are dropped entirely since fusion order is now
// group order. maxTotal <= 0 yields an empty list.
func EnforceCitationLimit(groups []CitationGroup, maxTotal int) []CitationGroup {
	if maxTotal <= 0 {
		return []CitationGroup{}
	}

	out := make([]CitationGroup, 0, len(groups))
	remaining := maxTotal
	for _, group := range groups {
		if remaining <= 0 {
			break
		}
		if len(group.Spans) <= remaining {
			out = append(out, group)
			remaining -= len(group.Spans)
			continue
		}

		kept := group.Spans[:remaining]
		var pages []int
		for _, fused := range kept {
			pages = mergePage(pages, fused.Span.Page)
		}
		out = append(out, CitationGroup{
			DocumentId: group.DocumentId,
			DocName:    group.DocName,
			Pages:      pages,
			Spans:      kept,
		})
		remaining = 0
	}
	return out
}

// Options configures NormalizeAndLimit. Zero-valued caps fall back to the
// package defaults; an empty AllowedTags skips tag filtering.
type Options struct {
	TagsByDocument map[uuid.UUID][]string
	AllowedTags    []string
	RequireAllTags bool
	MaxPerDocument int
	MaxTotal       int
}

// NormalizeAndLimit is the single call site downstream consumers should use:
// optional tag filter, then per-document grouping, then the global cap.
func NormalizeAndLimit(spans []retrieval.FusedSpan, opts Options) []CitationGroup {
	if opts.MaxPerDocument <= 0 {
		opts.MaxPerDocument = DefaultMaxPerDocument
	}
	if opts.MaxTotal <= 0 {
		opts.MaxTotal = DefaultMaxTotal
	}

	filtered := FilterByDocumentTags(spans, opts.TagsByDocument, opts.AllowedTags, opts.RequireAllTags)
	groups := GroupCitations(filtered, opts.MaxPerDocument)
	return EnforceCitationLimit(groups, opts.MaxTotal)
}

// mergePage inserts page into a deduplicated ascending page list.
func mergePage(pages []int, page int) []int {
	i := sort.SearchInts(pages, page)
	if i < len(pages) && pages[i] == page {
		return pages
	}
	pages = append(pages, 0)
	copy(pages[i+1:], pages[i:])
	pages[i] = page
	return pages
}
