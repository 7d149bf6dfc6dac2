package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"legalai/internal/config"
	"legalai/internal/http"
	"legalai/internal/llm"
	"legalai/internal/rag"
	"legalai/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the Qdrant index handle. A failure here degrades the
	// service (health reports vector_store_loaded=false, /chat answers
	// without context) rather than preventing startup.
	var store vectorstore.VectorStore
	qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		slog.Error("Failed to create Qdrant client, starting degraded", "error", err)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		exists, err := qdrantStore.CollectionExists(ctx, cfg.QdrantCollection)
		cancel()
		switch {
		case err != nil:
			slog.Error("Failed to reach Qdrant, starting degraded", "error", err)
			store = qdrantStore // health checks will keep probing
		case !exists:
			slog.Warn("Qdrant collection not found, starting degraded", "collection", cfg.QdrantCollection)
			store = qdrantStore
		default:
			store = qdrantStore
			slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection)
		}
	}

	// Shared clients, initialized once and injected (no runtime mutation).
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	engine := rag.NewEngine(
		rag.NewKeywordClassifier(),
		rag.NewRetriever(embedder, store, cfg.QdrantCollection),
		rag.NewSynthesizer(llmClient),
		rag.Config{
			TopK:              cfg.TopK,
			RetrievalTimeout:  cfg.RetrievalTimeout,
			GenerationTimeout: cfg.GenerationTimeout,
		},
	)
	slog.Info("RAG engine initialized", "top_k", cfg.TopK)

	deps := &http.Deps{
		Engine:         engine,
		VectorStore:    store,
		CollectionName: cfg.QdrantCollection,
		CORSOrigins:    cfg.CORSOrigins,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
