package embeddings

import (
	"context"
	"fmt"
	"strings"

	"github.com/getfitted/fitted/internal"
	"github.com/getfitted/fitted/pkg/models"

	"golang.org/x/sync/errgroup"
)

var log = internal.GetLogger()

var _ models.Embedder = &Generator{}

// Generator turns wardrobe items and free-form queries into embedding vectors
// via an external embedding model, memoizing item vectors in the cache.
// Queries are never cached; they are cheap and rarely repeat byte-for-byte.
type Generator struct {
	client models.EmbeddingsClient
	tokens models.TokenCounter
	cache  *Cache
	store  models.EmbeddingStore
}

func NewGenerator(
	client models.EmbeddingsClient,
	tokens models.TokenCounter,
	cache *Cache,
) *Generator {
	return &Generator{
		client: client,
		tokens: tokens,
		cache:  cache,
	}
}

// UseEmbeddingStore enables durable write-through of freshly generated item
// vectors. Lookups still go through the in-memory cache only.
func (g *Generator) UseEmbeddingStore(store models.EmbeddingStore) {
	g.store = store
}

// EmbeddingText builds the canonical text block an item is embedded from.
// Optional fields are omitted entirely when empty.
func EmbeddingText(item *models.WardrobeItem) string {
	lines := []string{
		"Category: " + item.Category,
		"Type: " + item.Subcategory,
		"Description: " + item.Description,
		"Colors: " + item.ColorList(),
	}
	if len(item.Occasions) > 0 {
		lines = append(lines, "Suitable for: "+item.OccasionList())
	}
	if item.Fit != "" {
		lines = append(lines, "Fit style: "+item.Fit)
	}
	if item.Brand != "" {
		lines = append(lines, "Brand: "+item.Brand)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// QueryText builds the query projection for an occasion and optional note.
func QueryText(occasion string, note string) string {
	return strings.TrimSpace(occasion + " outfit " + note)
}

// EmbedItem embeds a single item, returning the vector and the token count
// billed for the call.
func (g *Generator) EmbedItem(
	ctx context.Context,
	item *models.WardrobeItem,
) ([]float32, int, error) {
	text := EmbeddingText(item)

	embedding, tokens, err := g.embedText(ctx, text)
	if err != nil {
		return nil, 0, models.NewEmbeddingGenerationError(
			fmt.Sprintf("item %s", item.UUID),
			err,
		)
	}
	return embedding, tokens, nil
}

// GetCachedEmbedding returns the item's embedding from the cache when a valid
// entry exists, reporting zero token cost for hits. On a miss it embeds the
// item, stores the vector and returns the true cost.
func (g *Generator) GetCachedEmbedding(
	ctx context.Context,
	item *models.WardrobeItem,
) (*models.EmbeddingResult, error) {
	key := CacheKey(item)

	if embedding, ok := g.cache.Get(key); ok {
		return &models.EmbeddingResult{
			Embedding: embedding,
			Tokens:    0,
			FromCache: true,
		}, nil
	}

	embedding, tokens, err := g.EmbedItem(ctx, item)
	if err != nil {
		return nil, err
	}

	g.cache.Put(key, embedding)

	if g.store != nil {
		if err := g.store.PutItemEmbedding(ctx, item.UUID, key, embedding); err != nil {
			// The durable copy is auxiliary; retrieval proceeds on the
			// in-memory vector.
			log.Warnf("failed to persist embedding for item %s: %v", item.UUID, err)
		}
	}

	return &models.EmbeddingResult{
		Embedding: embedding,
		Tokens:    tokens,
		FromCache: false,
	}, nil
}

// EmbedAllItems embeds every item concurrently, joining before return. Result
// order matches input order regardless of completion order. Any failure fails
// the whole batch: a partial candidate pool would silently skew ranking and
// balancing downstream.
func (g *Generator) EmbedAllItems(
	ctx context.Context,
	items []models.WardrobeItem,
) ([]models.EmbeddedItem, int, error) {
	embedded := make([]models.EmbeddedItem, len(items))
	tokenCounts := make([]int, len(items))

	eg, egCtx := errgroup.WithContext(ctx)
	for i := range items {
		i := i
		eg.Go(func() error {
			result, err := g.GetCachedEmbedding(egCtx, &items[i])
			if err != nil {
				return err
			}
			embedded[i] = models.EmbeddedItem{
				WardrobeItem: items[i],
				Embedding:    result.Embedding,
			}
			tokenCounts[i] = result.Tokens
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	totalTokens := 0
	for _, tokens := range tokenCounts {
		totalTokens += tokens
	}

	return embedded, totalTokens, nil
}

// EmbedQuery embeds the query projection directly, bypassing the cache.
func (g *Generator) EmbedQuery(
	ctx context.Context,
	occasion string,
	note string,
) ([]float32, int, error) {
	text := QueryText(occasion, note)

	embedding, tokens, err := g.embedText(ctx, text)
	if err != nil {
		return nil, 0, models.NewEmbeddingGenerationError(
			fmt.Sprintf("query %q", text),
			err,
		)
	}
	return embedding, tokens, nil
}

func (g *Generator) embedText(ctx context.Context, text string) ([]float32, int, error) {
	embeddings, err := g.client.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, 0, err
	}
	if len(embeddings) != 1 || len(embeddings[0]) == 0 {
		return nil, 0, fmt.Errorf("embedding client returned %d embeddings for one text", len(embeddings))
	}

	tokens, err := g.tokens.GetTokenCount(text)
	if err != nil {
		return nil, 0, err
	}

	return embeddings[0], tokens, nil
}
