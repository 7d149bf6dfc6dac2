package handlers

import (
	"encoding/json"
	"net/http"
)

// Root serves service information at /.
func Root(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{
		"service":     "Legal AI Backend",
		"version":     "1.0.0",
		"description": "Legal awareness and information retrieval using RAG",
		"endpoints": map[string]string{
			"POST /chat":  "Process legal queries and get answers with citations",
			"GET /health": "Health check endpoint",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
