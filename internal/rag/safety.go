package rag

import (
	"context"
	"strings"
)

// Classifier screens a query before any retrieval or generation cost is
// incurred. Permitted=false terminates the pipeline with a fixed refusal.
// Implementations may be heuristic or model-backed.
type Classifier interface {
	// Classify reports whether the query is permitted. An error means the
	// classifier could not produce a verdict at all.
	Classify(ctx context.Context, query string) (permitted bool, err error)
}

// illegalIntentPhrases are intent signals associated with requests for
// guidance on illegal acts. Matching is case-insensitive substring.
var illegalIntentPhrases = []string{
	"evade", "avoid arrest", "hide crime", "commit fraud", "forge",
	"illegal drug", "illegal weapon", "smuggle", "bribe", "money laundering",
	"tax evasion", "hack", "break law", "get away with", "cover up crime",
}

// KeywordClassifier is the default Classifier: a curated phrase heuristic.
// It is deterministic and never returns an error.
type KeywordClassifier struct {
	phrases []string
}

// NewKeywordClassifier creates a classifier using the built-in phrase list.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{phrases: illegalIntentPhrases}
}

// Classify reports false when the query matches any illegal-intent phrase.
func (c *KeywordClassifier) Classify(_ context.Context, query string) (bool, error) {
	lowered := strings.ToLower(query)
	for _, phrase := range c.phrases {
		if strings.Contains(lowered, phrase) {
			return false, nil
		}
	}
	return true, nil
}
