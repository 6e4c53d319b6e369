package outfits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt, err := BuildSystemPrompt(DefaultPromptTemplate, "work/office", "prefer muted colors")
	require.NoError(t, err)

	assert.Contains(t, prompt, `for the occasion: "work/office"`)
	assert.Contains(t, prompt, "Match formality level to \"work/office\"")
	assert.Contains(t, prompt, "- User preference: prefer muted colors")
}

func TestBuildSystemPromptWithoutNote(t *testing.T) {
	prompt, err := BuildSystemPrompt(DefaultPromptTemplate, "casual", "")
	require.NoError(t, err)

	assert.NotContains(t, prompt, "User preference")
	assert.Contains(t, prompt, `"casual"`)
}

func TestBuildSystemPromptCustomTemplate(t *testing.T) {
	custom := "Dress me for {{.Occasion}}.\n{{.Note}}"
	prompt, err := BuildSystemPrompt(custom, "formal", "no ties")
	require.NoError(t, err)
	assert.Equal(t, "Dress me for formal.\n- User preference: no ties", prompt)

	_, err = BuildSystemPrompt("{{.Occasion", "formal", "")
	assert.Error(t, err)
}
