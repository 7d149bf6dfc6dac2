package rag

import (
	"context"
	"errors"
	"strings"
	"time"

	"legalai/internal/contextutil"
)

// Engine answers legal questions through the full pipeline: safety screening,
// context retrieval, constrained synthesis, citation extraction, and response
// assembly. Each request is stateless; collaborators are shared, read-mostly
// clients injected at startup.
type Engine interface {
	// Answer runs one query through the pipeline.
	Answer(ctx context.Context, req QueryRequest) (QueryResult, error)
}

// Config holds pipeline tuning supplied from application configuration.
type Config struct {
	// TopK is the retrieval depth. Zero means DefaultTopK.
	TopK int
	// RetrievalTimeout bounds the vector index lookup.
	RetrievalTimeout time.Duration
	// GenerationTimeout bounds each generation model call.
	GenerationTimeout time.Duration
	// GenerationRetryBackoff is the pause before the single generation retry.
	GenerationRetryBackoff time.Duration
}

const (
	defaultRetrievalTimeout       = 10 * time.Second
	defaultGenerationTimeout      = 60 * time.Second
	defaultGenerationRetryBackoff = 500 * time.Millisecond
)

type ragEngine struct {
	classifier  Classifier
	retriever   *Retriever
	synthesizer *Synthesizer
	cfg         Config
}

// NewEngine creates the pipeline engine.
func NewEngine(classifier Classifier, retriever *Retriever, synthesizer *Synthesizer, cfg Config) Engine {
	if cfg.TopK < 1 {
		cfg.TopK = DefaultTopK
	}
	if cfg.RetrievalTimeout <= 0 {
		cfg.RetrievalTimeout = defaultRetrievalTimeout
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = defaultGenerationTimeout
	}
	if cfg.GenerationRetryBackoff <= 0 {
		cfg.GenerationRetryBackoff = defaultGenerationRetryBackoff
	}
	return &ragEngine{
		classifier:  classifier,
		retriever:   retriever,
		synthesizer: synthesizer,
		cfg:         cfg,
	}
}

// Answer runs one query through the pipeline.
func (e *ragEngine) Answer(ctx context.Context, req QueryRequest) (QueryResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return QueryResult{}, &ValidationError{Field: "query", Message: "cannot be empty"}
	}

	logger.InfoContext(ctx, "query started", "query_length", len(query))

	// Safety screening runs before any retrieval or generation cost.
	permitted, err := e.classifier.Classify(ctx, query)
	if err != nil {
		logger.ErrorContext(ctx, "safety classifier failed", "error", err)
		return QueryResult{}, WrapError(ErrSafetyCheck, err.Error())
	}
	if !permitted {
		logger.WarnContext(ctx, "query rejected by safety filter")
		return AssembleResult(RefusalMessage, nil, false), nil
	}

	k := req.K
	if k < 1 {
		k = e.cfg.TopK
	}

	retrievalCtx, cancelRetrieval := context.WithTimeout(ctx, e.cfg.RetrievalTimeout)
	contextSet, err := e.retriever.Retrieve(retrievalCtx, query, k)
	cancelRetrieval()
	if err != nil {
		if errors.Is(retrievalCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return QueryResult{}, WrapError(ErrRetrieval, "index lookup timed out")
		}
		return QueryResult{}, err
	}

	synthesis, err := e.synthesizeWithRetry(ctx, query, contextSet)
	if err != nil {
		return QueryResult{}, err
	}

	citations := ExtractCitations(contextSet, synthesis.Used, synthesis.Grounded)
	result := AssembleResult(synthesis.Text, citations, synthesis.Grounded)

	logger.InfoContext(ctx, "query completed",
		"has_context", result.HasContext,
		"citations", len(result.Citations),
		"answer_length", len(result.Answer),
	)
	return result, nil
}

// synthesizeWithRetry performs the generation call with one retry after a
// short backoff. Retries are skipped when the caller has gone away.
func (e *ragEngine) synthesizeWithRetry(ctx context.Context, query string, contextSet ContextSet) (Synthesis, error) {
	logger := contextutil.LoggerFromContext(ctx)

	genCtx, cancel := context.WithTimeout(ctx, e.cfg.GenerationTimeout)
	synthesis, err := e.synthesizer.Synthesize(genCtx, query, contextSet)
	cancel()
	if err == nil {
		return synthesis, nil
	}
	if !errors.Is(err, ErrGeneration) || ctx.Err() != nil {
		return Synthesis{}, err
	}

	logger.WarnContext(ctx, "generation failed, retrying once", "error", err, "backoff", e.cfg.GenerationRetryBackoff)
	select {
	case <-time.After(e.cfg.GenerationRetryBackoff):
	case <-ctx.Done():
		return Synthesis{}, WrapError(ErrGeneration, ctx.Err().Error())
	}

	genCtx, cancel = context.WithTimeout(ctx, e.cfg.GenerationTimeout)
	synthesis, err = e.synthesizer.Synthesize(genCtx, query, contextSet)
	cancel()
	if err != nil {
		return Synthesis{}, err
	}
	return synthesis, nil
}
