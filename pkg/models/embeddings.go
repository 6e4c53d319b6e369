package models

import (
	"context"

	"github.com/google/uuid"
)

// EmbeddedItem pairs a wardrobe item with its embedding vector.
type EmbeddedItem struct {
	WardrobeItem
	Embedding []float32 `json:"-"`
}

// EmbeddingResult is the outcome of a cache-aware embedding lookup. Tokens is
// zero on a cache hit so that upstream cost aggregation never double-counts.
type EmbeddingResult struct {
	Embedding []float32
	Tokens    int
	FromCache bool
}

// EmbeddingsClient is implemented by external embedding model clients.
type EmbeddingsClient interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// TokenCounter counts model tokens in a text string.
type TokenCounter interface {
	GetTokenCount(text string) (int, error)
}

// Embedder turns wardrobe items and queries into embedding vectors,
// memoizing item vectors in a TTL cache.
type Embedder interface {
	EmbedItem(ctx context.Context, item *WardrobeItem) ([]float32, int, error)
	GetCachedEmbedding(ctx context.Context, item *WardrobeItem) (*EmbeddingResult, error)
	EmbedAllItems(ctx context.Context, items []WardrobeItem) ([]EmbeddedItem, int, error)
	EmbedQuery(ctx context.Context, occasion string, note string) ([]float32, int, error)
}

// EmbeddingStore persists the latest embedding per item so vectors survive
// process restarts. Retrieval never reads from it directly; it is a
// write-through behind the in-memory cache.
type EmbeddingStore interface {
	PutItemEmbedding(ctx context.Context, itemUUID uuid.UUID, fingerprint string, embedding []float32) error
	DeleteItemEmbedding(ctx context.Context, itemUUID uuid.UUID) error
}

// ChatLLM is implemented by external chat completion clients.
type ChatLLM interface {
	TokenCounter
	Call(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
