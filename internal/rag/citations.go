package rag

import "sort"

// snippetMaxLen bounds citation snippets, matching the corpus display width.
const snippetMaxLen = 200

// ExtractCitations maps the used chunks of a ContextSet to Citation records.
// Duplicates sharing (source, section) are merged, keeping the
// highest-similarity instance; relevance order is preserved. A non-grounded
// answer never carries citations.
func ExtractCitations(contextSet ContextSet, used []int, grounded bool) []Citation {
	if !grounded || len(contextSet) == 0 || len(used) == 0 {
		return []Citation{}
	}

	// ContextSet is relevance-ordered, so iterating indices ascending both
	// preserves order and makes the first (source, section) instance the
	// highest-similarity one.
	indices := make([]int, 0, len(used))
	for _, idx := range used {
		if idx >= 0 && idx < len(contextSet) {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	type dedupeKey struct {
		source  string
		section string
	}
	seen := make(map[dedupeKey]bool, len(indices))

	citations := make([]Citation, 0, len(indices))
	for _, idx := range indices {
		chunk := contextSet[idx]
		key := dedupeKey{source: chunk.Source, section: chunk.Section}
		if seen[key] {
			continue
		}
		seen[key] = true

		citations = append(citations, Citation{
			SourceTitle: chunk.SourceTitle,
			Source:      chunk.Source,
			Snippet:     truncateSnippet(chunk.Text),
			Section:     chunk.Section,
			Page:        chunk.Page,
		})
	}

	return citations
}

func truncateSnippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetMaxLen {
		return text
	}
	return string(runes[:snippetMaxLen]) + "..."
}
