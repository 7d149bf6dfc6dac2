package rag

import (
	"strings"
	"testing"
)

func TestExtractCitations(t *testing.T) {
	contextSet := ContextSet{
		{
			Text:        "Article 14 guarantees equality before the law.",
			SourceTitle: "Constitution of India",
			Source:      "constitution.pdf",
			Section:     "Article 14",
			Page:        "7",
			Score:       0.92,
		},
		{
			Text:        "Continued discussion of equality before the law.",
			SourceTitle: "Constitution of India",
			Source:      "constitution.pdf",
			Section:     "Article 14",
			Score:       0.80,
		},
		{
			Text:        "Article 21 protects life and personal liberty.",
			SourceTitle: "Constitution of India",
			Source:      "constitution.pdf",
			Section:     "Article 21",
			Score:       0.65,
		},
	}

	t.Run("maps used chunks preserving relevance order", func(t *testing.T) {
		citations := ExtractCitations(contextSet, []int{2, 0}, true)
		if len(citations) != 2 {
			t.Fatalf("ExtractCitations() returned %d citations, want 2", len(citations))
		}
		if citations[0].Section != "Article 14" || citations[1].Section != "Article 21" {
			t.Errorf("citations out of relevance order: %v", citations)
		}
		if citations[0].SourceTitle != "Constitution of India" {
			t.Errorf("SourceTitle = %q", citations[0].SourceTitle)
		}
		if citations[0].Page != "7" {
			t.Errorf("Page = %q, want 7", citations[0].Page)
		}
	})

	t.Run("deduplicates by source and section keeping best score", func(t *testing.T) {
		citations := ExtractCitations(contextSet, []int{0, 1, 2}, true)
		if len(citations) != 2 {
			t.Fatalf("ExtractCitations() returned %d citations, want 2 after dedupe", len(citations))
		}
		// The retained Article 14 instance is the higher-scored one.
		if !strings.HasPrefix(citations[0].Snippet, "Article 14 guarantees") {
			t.Errorf("dedupe kept wrong instance: %q", citations[0].Snippet)
		}
	})

	t.Run("ungrounded answer yields no citations", func(t *testing.T) {
		citations := ExtractCitations(contextSet, []int{0, 1, 2}, false)
		if len(citations) != 0 {
			t.Errorf("ExtractCitations() returned %d citations for ungrounded answer, want 0", len(citations))
		}
	})

	t.Run("empty used set yields no citations", func(t *testing.T) {
		if got := ExtractCitations(contextSet, nil, true); len(got) != 0 {
			t.Errorf("ExtractCitations() = %v, want empty", got)
		}
	})

	t.Run("out of range indices ignored", func(t *testing.T) {
		citations := ExtractCitations(contextSet, []int{-1, 5, 2}, true)
		if len(citations) != 1 {
			t.Fatalf("ExtractCitations() returned %d citations, want 1", len(citations))
		}
		if citations[0].Section != "Article 21" {
			t.Errorf("Section = %q, want Article 21", citations[0].Section)
		}
	})
}

func TestTruncateSnippet(t *testing.T) {
	short := "short text"
	if got := truncateSnippet(short); got != short {
		t.Errorf("truncateSnippet(%q) = %q, want unchanged", short, got)
	}

	long := strings.Repeat("a", snippetMaxLen+50)
	got := truncateSnippet(long)
	if len([]rune(got)) != snippetMaxLen+3 {
		t.Errorf("truncateSnippet() length = %d, want %d", len([]rune(got)), snippetMaxLen+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncateSnippet() missing ellipsis: %q", got[len(got)-10:])
	}
}
