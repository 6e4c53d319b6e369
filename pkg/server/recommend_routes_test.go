package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getfitted/fitted/config"
	"github.com/getfitted/fitted/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedItem(_ context.Context, _ *models.WardrobeItem) ([]float32, int, error) {
	return []float32{1, 0}, 4, nil
}

func (stubEmbedder) GetCachedEmbedding(_ context.Context, _ *models.WardrobeItem) (*models.EmbeddingResult, error) {
	return &models.EmbeddingResult{Embedding: []float32{1, 0}, Tokens: 4}, nil
}

func (stubEmbedder) EmbedAllItems(_ context.Context, items []models.WardrobeItem) ([]models.EmbeddedItem, int, error) {
	embedded := make([]models.EmbeddedItem, len(items))
	for i, item := range items {
		embedded[i] = models.EmbeddedItem{WardrobeItem: item, Embedding: []float32{1, 0}}
	}
	return embedded, 4 * len(items), nil
}

func (stubEmbedder) EmbedQuery(_ context.Context, _ string, _ string) ([]float32, int, error) {
	return []float32{1, 0}, 3, nil
}

type stubChatLLM struct{}

func (stubChatLLM) Call(_ context.Context, _ string, _ string) (string, error) {
	return `{"combinations": [{"id": 1, "items": [], "reasoning": "r", "style_notes": "s", "confidence": "high", "background_colors": []}]}`, nil
}

func (stubChatLLM) GetTokenCount(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func recommendRouter(store models.ItemStore) http.Handler {
	appState := &models.AppState{
		LLMClient: stubChatLLM{},
		Embedder:  stubEmbedder{},
		ItemStore: store,
		Config: &config.Config{
			Server: config.ServerConfig{MaxNoteLength: 100},
		},
	}
	return setupRouter(appState)
}

func TestRecommendRoute(t *testing.T) {
	store := newMemoryItemStore()
	_, err := store.Create(context.Background(), &models.CreateItemRequest{
		UserID:      "local",
		Description: "white oxford shirt",
		Category:    models.CategoryTop,
		Subcategory: "Shirt",
		Colors:      []string{"white"},
	})
	require.NoError(t, err)

	router := recommendRouter(store)

	body := `{"occasion": "work/office", "note": "prefer muted colors"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var response models.RecommendResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	require.Len(t, response.Combinations, 1)
	assert.Equal(t, "work/office", response.Metadata.Occasion)
	assert.Equal(t, 1, response.Metadata.TotalItems)
	assert.NotZero(t, response.Usage.TotalTokens)
}

func TestRecommendRouteInvalidOccasion(t *testing.T) {
	router := recommendRouter(newMemoryItemStore())

	body := `{"occasion": "gardening"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRecommendRouteNoteTooLong(t *testing.T) {
	router := recommendRouter(newMemoryItemStore())

	body := `{"occasion": "casual", "note": "` + strings.Repeat("x", 101) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRecommendRouteEmptyWardrobe(t *testing.T) {
	router := recommendRouter(newMemoryItemStore())

	body := `{"occasion": "casual"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)
}
