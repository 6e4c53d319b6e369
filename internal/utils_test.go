package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrompt(t *testing.T) {
	prompt := "You are a stylist. Occasion: {{.Occasion}}."
	data := struct {
		Occasion string
	}{
		Occasion: "work",
	}

	result, err := ParsePrompt(prompt, data)
	assert.NoError(t, err)
	assert.Equal(t, "You are a stylist. Occasion: work.", result)

	// ensure error is returned for invalid prompt
	prompt = "Occasion: {{.Occasion"
	_, err = ParsePrompt(prompt, data)
	assert.Error(t, err)
}
