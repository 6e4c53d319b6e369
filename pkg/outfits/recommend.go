package outfits

import (
	"context"
	"errors"
	"time"

	"github.com/getfitted/fitted/internal"
	"github.com/getfitted/fitted/pkg/models"
	"github.com/getfitted/fitted/pkg/search"

	"golang.org/x/sync/errgroup"
)

var log = internal.GetLogger()

// Recommend runs the full recommendation flow for a user: load the wardrobe,
// embed the query and all items concurrently, run semantic search with
// category balancing, then generate outfit combinations from the selection.
func Recommend(
	ctx context.Context,
	appState *models.AppState,
	userID string,
	request *models.RecommendRequest,
) (*models.RecommendResponse, error) {
	startTime := time.Now()

	items, err := appState.ItemStore.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.NewBadRequestError("wardrobe is empty; add items before requesting outfits")
	}

	// The query embedding and the batch item embeddings have no ordering
	// dependency; run them concurrently and join before ranking.
	var (
		queryEmbedding []float32
		queryTokens    int
		embeddedItems  []models.EmbeddedItem
		itemTokens     int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var embedErr error
		queryEmbedding, queryTokens, embedErr = appState.Embedder.EmbedQuery(
			egCtx, request.Occasion, request.Note,
		)
		return embedErr
	})
	eg.Go(func() error {
		var embedErr error
		embeddedItems, itemTokens, embedErr = appState.Embedder.EmbedAllItems(egCtx, items)
		return embedErr
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result, err := search.SemanticSearch(embeddedItems, queryEmbedding)
	if err != nil {
		return nil, err
	}

	promptTemplate, err := resolvePromptTemplate(ctx, appState, request.CustomPrompt)
	if err != nil {
		return nil, err
	}

	combinations, promptTokens, completionTokens, err := GenerateOutfits(
		ctx,
		appState.LLMClient,
		result.SelectedItems,
		request.Occasion,
		request.Note,
		promptTemplate,
	)
	if err != nil {
		return nil, err
	}

	usage := CalculateUsage(
		itemTokens+queryTokens,
		promptTokens,
		completionTokens,
		time.Since(startTime),
	)

	return &models.RecommendResponse{
		Combinations: combinations,
		Usage:        usage,
		Metadata: models.RecommendMetadata{
			Occasion:        request.Occasion,
			TotalItems:      len(items),
			ItemsConsidered: len(result.SelectedItems),
		},
	}, nil
}

// resolvePromptTemplate prefers the caller's custom template, then the active
// outfit_generation prompt, then the compiled-in default.
func resolvePromptTemplate(
	ctx context.Context,
	appState *models.AppState,
	customPrompt string,
) (string, error) {
	if customPrompt != "" {
		return customPrompt, nil
	}
	if appState.PromptStore == nil {
		return "", nil
	}

	active, err := appState.PromptStore.GetActive(ctx, models.PromptTypeOutfitGeneration)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	log.Debugf("using active prompt %s v%d", active.Name, active.Version)
	return active.Content, nil
}
