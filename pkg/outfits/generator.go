package outfits

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/invopop/jsonschema"
)

// ItemPayload is the wire shape of a selected item as handed to the
// generation model. Embedding vectors are stripped; colors and occasions are
// flattened to comma separated strings.
type ItemPayload struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Desc        string `json:"desc"`
	Color       string `json:"color"`
	Fit         string `json:"fit,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Occasion    string `json:"occasion,omitempty"`
}

// ItemsPayload converts the balanced selection into the generation wire
// contract, preserving order.
func ItemsPayload(items []models.RankedItem) []ItemPayload {
	payload := make([]ItemPayload, len(items))
	for i, item := range items {
		payload[i] = ItemPayload{
			ID:          item.UUID.String(),
			Category:    item.Category,
			Subcategory: item.Subcategory,
			Desc:        item.Description,
			Color:       item.ColorList(),
			Fit:         item.Fit,
			Brand:       item.Brand,
			Occasion:    item.OccasionList(),
		}
	}
	return payload
}

// responseSchemaJSON renders the JSON Schema of the structured output
// contract. The schema is embedded in the system prompt so the model returns
// parseable combinations.
func responseSchemaJSON() (string, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&models.OutfitResponse{})
	if schema == nil {
		return "", fmt.Errorf("generated outfit response schema is nil")
	}
	out, err := schema.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// GenerateOutfits asks the chat model for outfit combinations over the
// selected items. Returns the combinations plus prompt and completion token
// counts for cost accounting.
func GenerateOutfits(
	ctx context.Context,
	llm models.ChatLLM,
	items []models.RankedItem,
	occasion string,
	note string,
	promptTemplate string,
) ([]models.OutfitCombination, int, int, error) {
	if promptTemplate == "" {
		promptTemplate = DefaultPromptTemplate
	}

	systemPrompt, err := BuildSystemPrompt(promptTemplate, occasion, note)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("building system prompt failed: %w", err)
	}

	schemaJSON, err := responseSchemaJSON()
	if err != nil {
		return nil, 0, 0, err
	}
	systemPrompt += "\n\nRespond with a single JSON object and nothing else. " +
		"The object must conform to this JSON Schema:\n" + schemaJSON

	itemsJSON, err := json.MarshalIndent(ItemsPayload(items), "", "  ")
	if err != nil {
		return nil, 0, 0, err
	}
	userPrompt := "Available wardrobe items:\n\n" + string(itemsJSON)

	completion, err := llm.Call(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("outfit generation failed: %w", err)
	}

	var response models.OutfitResponse
	if err := json.Unmarshal([]byte(extractJSON(completion)), &response); err != nil {
		return nil, 0, 0, fmt.Errorf("unmarshaling outfit response failed: %w", err)
	}

	promptTokens, err := llm.GetTokenCount(systemPrompt + userPrompt)
	if err != nil {
		return nil, 0, 0, err
	}
	completionTokens, err := llm.GetTokenCount(completion)
	if err != nil {
		return nil, 0, 0, err
	}

	return response.Combinations, promptTokens, completionTokens, nil
}

// extractJSON strips markdown code fences some models wrap JSON output in.
func extractJSON(completion string) string {
	trimmed := strings.TrimSpace(completion)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
