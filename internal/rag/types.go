package rag

// RetrievedChunk is a single passage returned from the vector index,
// together with the source metadata stored alongside its embedding.
type RetrievedChunk struct {
	// Text is the chunk content as stored in the index payload.
	Text string
	// SourceTitle is the human-readable title of the source document
	// (e.g., "Constitution of India").
	SourceTitle string
	// Source is the source identifier or filename (e.g., "constitution.pdf").
	Source string
	// Section is the section or article label within the source, if any.
	Section string
	// Page is the page number within the source, if any.
	Page string
	// Score is the similarity score reported by the index.
	Score float32
}

// ContextSet is the ordered retrieval result for one query, most similar
// first, bounded to top-k. An empty ContextSet is valid and means the index
// held nothing relevant.
type ContextSet []RetrievedChunk

// Citation is the view of a retrieved chunk that actually supported the
// generated answer. JSON field names are part of the public /chat contract.
type Citation struct {
	SourceTitle string `json:"source_title"`
	Source      string `json:"source"`
	Snippet     string `json:"snippet"`
	Section     string `json:"section,omitempty"`
	Page        string `json:"page,omitempty"`
}

// QueryRequest represents one legal question to answer.
type QueryRequest struct {
	// Query is the user's question.
	Query string
	// K optionally overrides the configured top-k. Zero means "use default".
	K int
}

// QueryResult is the final pipeline output.
type QueryResult struct {
	// Answer is the markdown answer text with the legal disclaimer appended.
	Answer string
	// Citations lists the sources that supported the answer, in relevance
	// order. Always empty when HasContext is false.
	Citations []Citation
	// HasContext reports whether the retrieved context was judged adequate
	// to produce a grounded answer.
	HasContext bool
}
