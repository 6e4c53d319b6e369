package models

// OutfitItemRef is one garment inside a generated combination, echoing the
// identifiers of a selected wardrobe item.
type OutfitItemRef struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Color       string `json:"color"`
	Reason      string `json:"reason"`
}

type BackgroundColor struct {
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

// OutfitCombination is one outfit proposed by the generation model.
type OutfitCombination struct {
	ID               int               `json:"id"`
	Items            []OutfitItemRef   `json:"items"`
	Reasoning        string            `json:"reasoning"`
	StyleNotes       string            `json:"style_notes"`
	Confidence       string            `json:"confidence"`
	BackgroundColors []BackgroundColor `json:"background_colors"`
}

// OutfitResponse is the structured output contract with the generation model.
type OutfitResponse struct {
	Combinations []OutfitCombination `json:"combinations"`
}

// UsageStats aggregates token counts and cost for a recommendation request.
type UsageStats struct {
	EmbeddingTokens  int     `json:"embedding_tokens"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	EmbeddingCostUSD float64 `json:"embedding_cost_usd"`
	LLMInputCostUSD  float64 `json:"llm_input_cost_usd"`
	LLMOutputCostUSD float64 `json:"llm_output_cost_usd"`
	TotalCostUSD     float64 `json:"total_cost_usd"`
	TotalCostIDR     int     `json:"total_cost_idr"`
	ProcessingTimeMS int64   `json:"processing_time_ms"`
}

type RecommendRequest struct {
	Occasion     string `json:"occasion"      validate:"required"`
	Note         string `json:"note"`
	CustomPrompt string `json:"custom_prompt"`
}

type RecommendMetadata struct {
	Occasion        string `json:"occasion"`
	TotalItems      int    `json:"total_items"`
	ItemsConsidered int    `json:"items_considered"`
}

type RecommendResponse struct {
	Combinations []OutfitCombination `json:"combinations"`
	Usage        UsageStats          `json:"usage"`
	Metadata     RecommendMetadata   `json:"metadata"`
}
