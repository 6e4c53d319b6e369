package models

import (
	"github.com/getfitted/fitted/config"
)

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	LLMClient        ChatLLM
	EmbeddingsClient EmbeddingsClient
	Embedder         Embedder
	ItemStore        ItemStore
	PromptStore      PromptStore
	Config           *config.Config
}
