package rag

import "strings"

// LegalDisclaimer is appended to every answer, exactly once.
const LegalDisclaimer = "\n\n**Disclaimer:** This is general legal information, not legal advice."

// RefusalMessage is the fixed reply for queries the safety filter rejects.
const RefusalMessage = "I cannot provide guidance on illegal activities. If you have questions about legal compliance or your rights, I'm happy to help with that instead."

// AssembleResult combines answer text, citations, and the grounding flag into
// the final QueryResult, appending the legal disclaimer. Pure, no I/O.
func AssembleResult(text string, citations []Citation, grounded bool) QueryResult {
	if !grounded {
		citations = []Citation{}
	}
	if citations == nil {
		citations = []Citation{}
	}

	if !strings.HasSuffix(text, LegalDisclaimer) {
		text += LegalDisclaimer
	}

	return QueryResult{
		Answer:     text,
		Citations:  citations,
		HasContext: grounded,
	}
}
