package rag

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"legalai/internal/rag/mocks"
	"legalai/internal/vectorstore"
	vectorstore_mocks "legalai/internal/vectorstore/mocks"
)

func TestRetriever_Retrieve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	queryVector := []float32{0.1, 0.2, 0.3}

	t.Run("maps search results to chunks in order", func(t *testing.T) {
		embedder := mocks.NewMockEmbedder(ctrl)
		store := vectorstore_mocks.NewMockVectorStore(ctrl)

		embedder.EXPECT().
			EmbedTexts(gomock.Any(), []string{"What is Article 14?"}).
			Return([][]float32{queryVector}, nil)

		store.EXPECT().
			Search(gomock.Any(), "legal_corpus", queryVector, 4, nil).
			Return([]vectorstore.SearchResult{
				{
					PointID: "p1",
					Score:   0.92,
					Meta: map[string]any{
						"text":    "Article 14 guarantees equality before the law.",
						"title":   "Constitution of India",
						"source":  "constitution.pdf",
						"section": "Article 14",
						"page":    int64(7),
					},
				},
				{
					PointID: "p2",
					Score:   0.71,
					Meta: map[string]any{
						"text":   "The State shall not deny to any person equality before the law.",
						"source": "constitution.pdf",
					},
				},
			}, nil)

		retriever := NewRetriever(embedder, store, "legal_corpus")
		chunks, err := retriever.Retrieve(ctx, "What is Article 14?", 4)
		if err != nil {
			t.Fatalf("Retrieve() unexpected error: %v", err)
		}
		if len(chunks) != 2 {
			t.Fatalf("Retrieve() returned %d chunks, want 2", len(chunks))
		}

		first := chunks[0]
		if first.SourceTitle != "Constitution of India" {
			t.Errorf("SourceTitle = %q, want Constitution of India", first.SourceTitle)
		}
		if first.Section != "Article 14" {
			t.Errorf("Section = %q, want Article 14", first.Section)
		}
		if first.Page != "7" {
			t.Errorf("Page = %q, want 7", first.Page)
		}
		if first.Score != 0.92 {
			t.Errorf("Score = %v, want 0.92", first.Score)
		}

		// Missing title falls back to the source identifier.
		if chunks[1].SourceTitle != "constitution.pdf" {
			t.Errorf("fallback SourceTitle = %q, want constitution.pdf", chunks[1].SourceTitle)
		}
	})

	t.Run("empty query is a validation error", func(t *testing.T) {
		retriever := NewRetriever(mocks.NewMockEmbedder(ctrl), vectorstore_mocks.NewMockVectorStore(ctrl), "legal_corpus")

		var validationErr *ValidationError
		if _, err := retriever.Retrieve(ctx, "   ", 4); !errors.As(err, &validationErr) {
			t.Fatalf("Retrieve() error = %v, want ValidationError", err)
		}
	})

	t.Run("nil store degrades to empty context", func(t *testing.T) {
		retriever := NewRetriever(mocks.NewMockEmbedder(ctrl), nil, "legal_corpus")
		if retriever.Loaded() {
			t.Error("Loaded() = true for nil store")
		}

		chunks, err := retriever.Retrieve(ctx, "What is Article 14?", 4)
		if err != nil {
			t.Fatalf("Retrieve() unexpected error: %v", err)
		}
		if len(chunks) != 0 {
			t.Errorf("Retrieve() returned %d chunks, want 0", len(chunks))
		}
	})

	t.Run("zero results is not an error", func(t *testing.T) {
		embedder := mocks.NewMockEmbedder(ctrl)
		store := vectorstore_mocks.NewMockVectorStore(ctrl)

		embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{queryVector}, nil)
		store.EXPECT().Search(gomock.Any(), "legal_corpus", queryVector, 4, nil).Return([]vectorstore.SearchResult{}, nil)

		retriever := NewRetriever(embedder, store, "legal_corpus")
		chunks, err := retriever.Retrieve(ctx, "unheard of topic", 4)
		if err != nil {
			t.Fatalf("Retrieve() unexpected error: %v", err)
		}
		if len(chunks) != 0 {
			t.Errorf("Retrieve() returned %d chunks, want 0", len(chunks))
		}
	})

	t.Run("search failure is ErrRetrieval", func(t *testing.T) {
		embedder := mocks.NewMockEmbedder(ctrl)
		store := vectorstore_mocks.NewMockVectorStore(ctrl)

		embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{queryVector}, nil)
		store.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		retriever := NewRetriever(embedder, store, "legal_corpus")
		if _, err := retriever.Retrieve(ctx, "What is Article 14?", 4); !errors.Is(err, ErrRetrieval) {
			t.Fatalf("Retrieve() error = %v, want ErrRetrieval", err)
		}
	})

	t.Run("embedding failure is ErrRetrieval", func(t *testing.T) {
		embedder := mocks.NewMockEmbedder(ctrl)
		embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

		retriever := NewRetriever(embedder, vectorstore_mocks.NewMockVectorStore(ctrl), "legal_corpus")
		if _, err := retriever.Retrieve(ctx, "What is Article 14?", 4); !errors.Is(err, ErrRetrieval) {
			t.Fatalf("Retrieve() error = %v, want ErrRetrieval", err)
		}
	})

	t.Run("non-positive k falls back to default", func(t *testing.T) {
		embedder := mocks.NewMockEmbedder(ctrl)
		store := vectorstore_mocks.NewMockVectorStore(ctrl)

		embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{queryVector}, nil)
		store.EXPECT().Search(gomock.Any(), "legal_corpus", queryVector, DefaultTopK, nil).Return(nil, nil)

		retriever := NewRetriever(embedder, store, "legal_corpus")
		if _, err := retriever.Retrieve(ctx, "What is Article 14?", 0); err != nil {
			t.Fatalf("Retrieve() unexpected error: %v", err)
		}
	})
}
