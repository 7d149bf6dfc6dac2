package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"legalai/internal/contextutil"
	"legalai/internal/vectorstore"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	vectorStore        vectorstore.VectorStore
	collectionName     string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. vectorStore may be nil when
// the index handle failed to initialize at startup.
func NewHealthHandler(vectorStore vectorstore.VectorStore, collectionName string) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		collectionName:     collectionName,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "degraded"
	Status string `json:"status"`

	// Human-readable status message
	Message string `json:"message"`

	// Whether the vector index handle is loaded and reachable
	VectorStoreLoaded bool `json:"vector_store_loaded"`
}

// ServeHTTP handles HTTP requests for health checks. The service stays
// available while degraded, so the endpoint always answers 200.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	loaded := h.checkVectorStore(checkCtx, logger)

	response := HealthResponse{
		Status:            "healthy",
		Message:           "Legal AI backend is running",
		VectorStoreLoaded: loaded,
	}
	if !loaded {
		response.Status = "degraded"
		response.Message = "Vector store not loaded"
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

// checkVectorStore checks if the vector index is loaded and reachable.
func (h *HealthHandler) checkVectorStore(ctx context.Context, logger *slog.Logger) bool {
	if h.vectorStore == nil {
		return false
	}
	exists, err := h.vectorStore.CollectionExists(ctx, h.collectionName)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		return false
	}
	if !exists {
		logger.WarnContext(ctx, "vector store collection does not exist", "collection", h.collectionName)
		return false
	}
	return true
}
