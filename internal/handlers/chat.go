package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"legalai/internal/contextutil"
	"legalai/internal/rag"
)

const (
	queryMinLen = 3
	queryMaxLen = 1000
)

// ChatHandler handles HTTP requests for legal queries.
type ChatHandler struct {
	engine rag.Engine
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine rag.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// ChatRequest represents the HTTP request payload for /chat.
type ChatRequest struct {
	Query string `json:"query"`
}

// CitationResponse represents a citation in the HTTP response.
// This mirrors rag.Citation but is defined here for HTTP layer separation.
type CitationResponse struct {
	SourceTitle string `json:"source_title"`
	Source      string `json:"source"`
	Snippet     string `json:"snippet"`
	Section     string `json:"section,omitempty"`
	Page        string `json:"page,omitempty"`
}

// ChatResponse represents the HTTP response payload for /chat.
type ChatResponse struct {
	Answer     string             `json:"answer"`
	Citations  []CitationResponse `json:"citations"`
	HasContext bool               `json:"has_context"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ServeHTTP handles HTTP requests for legal queries.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	query := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(query) < queryMinLen {
		logger.WarnContext(ctx, "query too short")
		writeError(w, http.StatusUnprocessableEntity, "Query must be at least 3 characters")
		return
	}
	if utf8.RuneCountInString(query) > queryMaxLen {
		logger.WarnContext(ctx, "query too long", "length", len(query))
		writeError(w, http.StatusUnprocessableEntity, "Query must be at most 1000 characters")
		return
	}

	result, err := h.engine.Answer(ctx, rag.QueryRequest{Query: query})
	if err != nil {
		h.handleEngineError(w, ctx, err)
		return
	}

	citations := make([]CitationResponse, len(result.Citations))
	for i, c := range result.Citations {
		citations[i] = CitationResponse{
			SourceTitle: c.SourceTitle,
			Source:      c.Source,
			Snippet:     c.Snippet,
			Section:     c.Section,
			Page:        c.Page,
		}
	}

	resp := ChatResponse{
		Answer:     result.Answer,
		Citations:  citations,
		HasContext: result.HasContext,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleEngineError maps pipeline errors to HTTP status codes. Internal
// detail never reaches the caller; every path returns a JSON body.
func (h *ChatHandler) handleEngineError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "engine error", "error", err)

	var validationErr *rag.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusUnprocessableEntity, validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, rag.ErrSafetyCheck):
		writeError(w, http.StatusServiceUnavailable, "Safety screening is unavailable. Please try again in a moment.")
	case errors.Is(err, rag.ErrRetrieval):
		writeError(w, http.StatusServiceUnavailable, "The knowledge base is temporarily unavailable. Please try again in a moment.")
	case errors.Is(err, rag.ErrGeneration):
		writeError(w, http.StatusBadGateway, "The answer service is temporarily unavailable. Please try again in a moment.")
	default:
		writeError(w, http.StatusInternalServerError, "An error occurred while processing your query. Please try again.")
	}
}

// writeError writes an error response body.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Detail: message,
	})
}
