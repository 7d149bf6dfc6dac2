package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"legalai/internal/handlers"
	"legalai/internal/rag"
	"legalai/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine         rag.Engine
	VectorStore    vectorstore.VectorStore // nil when the index handle failed to initialize
	CollectionName string
	CORSOrigins    []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS(deps.CORSOrigins))

	chatHandler := handlers.NewChatHandler(deps.Engine)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.CollectionName)

	r.Method(http.MethodPost, "/chat", chatHandler)
	r.Method(http.MethodGet, "/health", healthHandler)
	r.Get("/", handlers.Root)

	return r
}
