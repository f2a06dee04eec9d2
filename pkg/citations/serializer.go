package citations

import "github.com/google/uuid"

// Citation is the transport-friendly shape of one CitationGroup, consumed by
// the response DTOs and the highlighting UI.
type Citation struct {
	DocumentId uuid.UUID   `json:"document_id"`
	DocName    string      `json:"doc_name"`
	Pages      []int       `json:"pages"`
	SpanIds    []uuid.UUID `json:"span_ids"`
	Snippets   []string    `json:"snippets"`
}

// SerializeCitations flattens groups into Citation records. Lossless: every
// kept span contributes its id and verbatim text.
func SerializeCitations(groups []CitationGroup) []Citation {
	out := make([]Citation, len(groups))
	for i, group := range groups {
		citation := Citation{
			DocumentId: group.DocumentId,
			DocName:    group.DocName,
			Pages:      group.Pages,
			SpanIds:    make([]uuid.UUID, 0, len(group.Spans)),
			Snippets:   make([]string, 0, len(group.Spans)),
		}
		for _, fused := range group.Spans {
			citation.SpanIds = append(citation.SpanIds, fused.Span.Id)
			citation.Snippets = append(citation.Snippets, fused.Span.Content)
		}
		out[i] = citation
	}
	return out
}
