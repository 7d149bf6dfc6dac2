package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks legalai/internal/vectorstore VectorStore

import "context"

// SearchResult represents a single hit from a similarity search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// CollectionInfo describes an index collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// VectorStore defines read-only access to the pre-built legal corpus index.
type VectorStore interface {
	// Search performs a similarity search with optional filters.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// GetCollectionInfo returns collection metadata including point count.
	GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error)
}
