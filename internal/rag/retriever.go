package rag

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"legalai/internal/contextutil"
	"legalai/internal/vectorstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_collaborators.go -package=mocks legalai/internal/rag Embedder,Generator,Classifier

// DefaultTopK is the number of chunks retrieved when the request does not
// override it.
const DefaultTopK = 4

// Embedder produces a vector embedding for query text.
type Embedder interface {
	// EmbedTexts returns one vector per input text.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever embeds a query and looks up the top-k most similar chunks in the
// vector index. It never mutates the index.
type Retriever struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
}

// NewRetriever creates a Retriever. store may be nil when the index handle
// failed to initialize; retrieval then degrades to an empty ContextSet.
func NewRetriever(embedder Embedder, store vectorstore.VectorStore, collection string) *Retriever {
	return &Retriever{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// Loaded reports whether the index handle is available.
func (r *Retriever) Loaded() bool {
	return r.store != nil
}

// Retrieve returns the k most similar chunks for the query, most similar
// first. An empty result means "no relevant context" and is not an error;
// ErrRetrieval is reserved for index faults.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (ContextSet, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Field: "query", Message: "cannot be empty"}
	}
	if k < 1 {
		k = DefaultTopK
	}

	if r.store == nil {
		logger.WarnContext(ctx, "vector store not loaded, returning empty context")
		return ContextSet{}, nil
	}

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return nil, fmt.Errorf("%w: embed query: %v", ErrRetrieval, err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned for query", ErrRetrieval)
	}

	results, err := r.store.Search(ctx, r.collection, embeddings[0], k, nil)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search vector store", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	chunks := make(ContextSet, 0, len(results))
	for _, result := range results {
		chunks = append(chunks, chunkFromResult(result))
	}

	logger.InfoContext(ctx, "vector search completed", "results_count", len(chunks), "k_requested", k)
	return chunks, nil
}

// chunkFromResult maps an index payload onto a RetrievedChunk. The corpus
// builder stores chunk text and source metadata in the payload.
func chunkFromResult(result vectorstore.SearchResult) RetrievedChunk {
	chunk := RetrievedChunk{Score: result.Score}

	chunk.Text, _ = result.Meta["text"].(string)
	chunk.Source, _ = result.Meta["source"].(string)
	chunk.Section, _ = result.Meta["section"].(string)

	if title, ok := result.Meta["title"].(string); ok && title != "" {
		chunk.SourceTitle = title
	} else {
		chunk.SourceTitle = chunk.Source
	}

	// Page may be stored as a string or a number depending on the corpus build.
	switch page := result.Meta["page"].(type) {
	case string:
		chunk.Page = page
	case int64:
		chunk.Page = strconv.FormatInt(page, 10)
	case float64:
		chunk.Page = strconv.FormatInt(int64(page), 10)
	}

	return chunk
}
