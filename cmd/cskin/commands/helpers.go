package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/cskinhq/cskin-go/internal/embedder"
	"github.com/cskinhq/cskin-go/internal/rag"
)

// buildVectorStore connects to the Qdrant knowledge base using the standard
// QDRANT_* environment variables. The collection vector size follows the
// configured embedding backend so retrieval and ingestion stay consistent.
func buildVectorStore(ctx context.Context) (*rag.QdrantStore, error) {
	host := getEnvOrDefault("QDRANT_HOST", "localhost")
	port := getEnvInt("QDRANT_PORT", 6334)
	collection := getEnvOrDefault("QDRANT_COLLECTION", "skin-diseases")
	vectorSize := uint64(getEnvInt("EMBEDDING_DIMENSIONS", embedder.DefaultDimensions(embedder.ResolveBackend()))) //nolint:gosec // dimensions are bounded

	store, err := rag.NewQdrantStore(ctx, &rag.QdrantConfig{
		Host:       host,
		Port:       port,
		Collection: collection,
		VectorSize: vectorSize,
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		UseTLS:     os.Getenv("QDRANT_TLS") == "true",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant at %s:%d: %w", host, port, err)
	}
	return store, nil
}

// buildRetriever wires the embedder and vector store into a retriever with
// the configured top-k and minimum score bounds.
func buildRetriever(emb rag.Embedder, store rag.VectorStore) (rag.Retriever, error) {
	topK := getEnvInt("CSKIN_TOP_K", rag.DefaultTopK)
	minScore := getEnvFloat32("CSKIN_MIN_SCORE", rag.DefaultMinScore)

	retriever, err := rag.NewRetriever(emb, store, topK, minScore)
	if err != nil {
		return nil, fmt.Errorf("failed to create retriever: %w", err)
	}
	return retriever, nil
}

// getEnvOrDefault returns the env var value or a fallback if unset.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the env var parsed as int, or a fallback if unset/invalid.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvFloat32 returns the env var parsed as float32, or a fallback if
// unset/invalid.
func getEnvFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
