package config

import (
	"log/slog"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("QDRANT_VECTOR_SIZE", "1024")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.QdrantVectorSize != 1024 {
		t.Errorf("QdrantVectorSize = %d, want 1024", cfg.QdrantVectorSize)
	}
	if cfg.QdrantCollection != "legal_corpus" {
		t.Errorf("QdrantCollection = %q, want legal_corpus", cfg.QdrantCollection)
	}
	if cfg.TopK != 4 {
		t.Errorf("TopK = %d, want 4", cfg.TopK)
	}
	if cfg.RetrievalTimeout != 10*time.Second {
		t.Errorf("RetrievalTimeout = %v, want 10s", cfg.RetrievalTimeout)
	}
	if cfg.GenerationTimeout != 60*time.Second {
		t.Errorf("GenerationTimeout = %v, want 60s", cfg.GenerationTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.APIPort != "8000" {
		t.Errorf("APIPort = %q, want 8000", cfg.APIPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RAG_TOP_K", "8")
	t.Setenv("RETRIEVAL_TIMEOUT", "2s")
	t.Setenv("GENERATION_TIMEOUT", "30s")
	t.Setenv("CORS_ORIGINS", "http://a.example.com, http://b.example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QDRANT_COLLECTION", "statutes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.TopK != 8 {
		t.Errorf("TopK = %d, want 8", cfg.TopK)
	}
	if cfg.RetrievalTimeout != 2*time.Second {
		t.Errorf("RetrievalTimeout = %v, want 2s", cfg.RetrievalTimeout)
	}
	if cfg.GenerationTimeout != 30*time.Second {
		t.Errorf("GenerationTimeout = %v, want 30s", cfg.GenerationTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.QdrantCollection != "statutes" {
		t.Errorf("QdrantCollection = %q, want statutes", cfg.QdrantCollection)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing vector size", map[string]string{"QDRANT_VECTOR_SIZE": ""}},
		{"non-numeric vector size", map[string]string{"QDRANT_VECTOR_SIZE": "abc"}},
		{"negative vector size", map[string]string{"QDRANT_VECTOR_SIZE": "-1"}},
		{"zero top k", map[string]string{"QDRANT_VECTOR_SIZE": "1024", "RAG_TOP_K": "0"}},
		{"bad timeout", map[string]string{"QDRANT_VECTOR_SIZE": "1024", "RETRIEVAL_TIMEOUT": "soon"}},
		{"bad log level", map[string]string{"QDRANT_VECTOR_SIZE": "1024", "LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load() expected error, got nil")
			}
		})
	}
}
