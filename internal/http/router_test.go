package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"legalai/internal/rag"
)

type stubEngine struct {
	result rag.QueryResult
}

func (s *stubEngine) Answer(_ context.Context, _ rag.QueryRequest) (rag.QueryResult, error) {
	return s.result, nil
}

func newTestRouter() http.Handler {
	return NewRouter(&Deps{
		Engine: &stubEngine{
			result: rag.QueryResult{
				Answer:     "Answer." + rag.LegalDisclaimer,
				Citations:  []rag.Citation{},
				HasContext: false,
			},
		},
		VectorStore:    nil,
		CollectionName: "legal_corpus",
		CORSOrigins:    []string{"*"},
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter()

	t.Run("POST /chat", func(t *testing.T) {
		body := bytes.NewBufferString(`{"query": "What is Article 14?"}`)
		req := httptest.NewRequest(http.MethodPost, "/chat", body)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "has_context") {
			t.Error("chat response missing has_context")
		}
	})

	t.Run("GET /health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var resp map[string]any
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if loaded, ok := resp["vector_store_loaded"].(bool); !ok || loaded {
			t.Errorf("vector_store_loaded = %v, want false with nil store", resp["vector_store_loaded"])
		}
	})

	t.Run("GET /", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "endpoints") {
			t.Error("root response missing endpoint map")
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
