package outfits

import (
	"context"
	"testing"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeItemStore struct {
	models.ItemStore
	items []models.WardrobeItem
}

func (f *fakeItemStore) ListAll(_ context.Context, _ string) ([]models.WardrobeItem, error) {
	return f.items, nil
}

// fakeEmbedder assigns vectors so the single Top item scores highest.
type fakeEmbedder struct {
	queryTokens int
	itemTokens  int
}

func (f *fakeEmbedder) EmbedItem(_ context.Context, _ *models.WardrobeItem) ([]float32, int, error) {
	return []float32{1, 0}, 0, nil
}

func (f *fakeEmbedder) GetCachedEmbedding(_ context.Context, _ *models.WardrobeItem) (*models.EmbeddingResult, error) {
	return &models.EmbeddingResult{Embedding: []float32{1, 0}}, nil
}

func (f *fakeEmbedder) EmbedAllItems(_ context.Context, items []models.WardrobeItem) ([]models.EmbeddedItem, int, error) {
	embedded := make([]models.EmbeddedItem, len(items))
	for i, item := range items {
		vector := []float32{0, 1}
		if item.Category == models.CategoryTop {
			vector = []float32{1, 0}
		}
		embedded[i] = models.EmbeddedItem{WardrobeItem: item, Embedding: vector}
	}
	return embedded, f.itemTokens, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string, _ string) ([]float32, int, error) {
	return []float32{1, 0}, f.queryTokens, nil
}

type fakePromptStore struct {
	models.PromptStore
	active    *models.Prompt
	activeErr error
}

func (f *fakePromptStore) GetActive(_ context.Context, _ string) (*models.Prompt, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.active, nil
}

func recommendFixture(llm models.ChatLLM, promptStore models.PromptStore) *models.AppState {
	return &models.AppState{
		LLMClient: llm,
		Embedder:  &fakeEmbedder{queryTokens: 5, itemTokens: 40},
		ItemStore: &fakeItemStore{items: []models.WardrobeItem{
			{UUID: uuid.New(), Description: "white oxford shirt", Category: models.CategoryTop},
			{UUID: uuid.New(), Description: "navy chinos", Category: models.CategoryBottom},
		}},
		PromptStore: promptStore,
	}
}

func TestRecommend(t *testing.T) {
	llm := &fakeChatLLM{completion: fakeOutfitCompletion}
	appState := recommendFixture(llm, &fakePromptStore{activeErr: models.ErrNotFound})

	response, err := Recommend(context.Background(), appState, "user-1", &models.RecommendRequest{
		Occasion: "work/office",
		Note:     "prefer muted colors",
	})
	require.NoError(t, err)

	require.Len(t, response.Combinations, 1)
	assert.Equal(t, "work/office", response.Metadata.Occasion)
	assert.Equal(t, 2, response.Metadata.TotalItems)
	assert.Equal(t, 2, response.Metadata.ItemsConsidered)

	// 40 item tokens plus 5 query tokens
	assert.Equal(t, 45, response.Usage.EmbeddingTokens)
	assert.NotZero(t, response.Usage.PromptTokens)
	assert.NotZero(t, response.Usage.CompletionTokens)
	assert.GreaterOrEqual(t, response.Usage.ProcessingTimeMS, int64(0))

	assert.Contains(t, llm.systemPrompt, `"work/office"`)
}

func TestRecommendEmptyWardrobe(t *testing.T) {
	appState := recommendFixture(&fakeChatLLM{completion: fakeOutfitCompletion}, nil)
	appState.ItemStore = &fakeItemStore{}

	_, err := Recommend(context.Background(), appState, "user-1", &models.RecommendRequest{
		Occasion: "casual",
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestRecommendUsesActivePrompt(t *testing.T) {
	llm := &fakeChatLLM{completion: fakeOutfitCompletion}
	appState := recommendFixture(llm, &fakePromptStore{active: &models.Prompt{
		Name:    "minimalist",
		Type:    models.PromptTypeOutfitGeneration,
		Content: "Styled take on {{.Occasion}}.\n{{.Note}}",
		Version: 3,
	}})

	_, err := Recommend(context.Background(), appState, "user-1", &models.RecommendRequest{
		Occasion: "casual",
	})
	require.NoError(t, err)
	assert.Contains(t, llm.systemPrompt, "Styled take on casual.")
}

func TestRecommendCustomPromptWins(t *testing.T) {
	llm := &fakeChatLLM{completion: fakeOutfitCompletion}
	appState := recommendFixture(llm, &fakePromptStore{active: &models.Prompt{
		Content: "stored template {{.Occasion}}",
	}})

	_, err := Recommend(context.Background(), appState, "user-1", &models.RecommendRequest{
		Occasion:     "formal",
		CustomPrompt: "Caller template for {{.Occasion}}.\n{{.Note}}",
	})
	require.NoError(t, err)
	assert.Contains(t, llm.systemPrompt, "Caller template for formal.")
	assert.NotContains(t, llm.systemPrompt, "stored template")
}
