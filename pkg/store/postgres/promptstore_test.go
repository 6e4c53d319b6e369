package postgres

import (
	"testing"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestApplyPromptUpdate(t *testing.T) {
	current := &models.Prompt{
		Name:    "minimalist",
		Type:    models.PromptTypeOutfitGeneration,
		Content: "old template",
		Version: 2,
	}

	t.Run("content change bumps version", func(t *testing.T) {
		content := "new template"
		merged := applyPromptUpdate(current, &models.UpdatePromptRequest{Content: &content})
		assert.Equal(t, "new template", merged.Content)
		assert.Equal(t, 3, merged.Version)
	})

	t.Run("identical content keeps version", func(t *testing.T) {
		content := "old template"
		merged := applyPromptUpdate(current, &models.UpdatePromptRequest{Content: &content})
		assert.Equal(t, 2, merged.Version)
	})

	t.Run("name-only update keeps version", func(t *testing.T) {
		name := "minimalist v2"
		merged := applyPromptUpdate(current, &models.UpdatePromptRequest{Name: &name})
		assert.Equal(t, "minimalist v2", merged.Name)
		assert.Equal(t, "old template", merged.Content)
		assert.Equal(t, 2, merged.Version)
	})
}
