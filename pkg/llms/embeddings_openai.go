package llms

import (
	"context"
	"fmt"

	"github.com/getfitted/fitted/config"
	"github.com/getfitted/fitted/pkg/models"

	"github.com/tmc/langchaingo/llms/openai"
)

type EmbeddingsClientError struct {
	message       string
	originalError error
}

func (e *EmbeddingsClientError) Error() string {
	return fmt.Sprintf("embeddings client error: %s (original error: %v)", e.message, e.originalError)
}

func NewEmbeddingsClientError(message string, originalError error) *EmbeddingsClientError {
	return &EmbeddingsClientError{message: message, originalError: originalError}
}

func NewEmbeddingsClient(ctx context.Context, cfg *config.Config) (models.EmbeddingsClient, error) {
	switch cfg.Embeddings.Service {
	// For now we only support OpenAI embeddings
	case "openai", "":
		return NewOpenAIEmbeddingsClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("invalid embeddings service: %s", cfg.Embeddings.Service)
	}
}

var _ models.EmbeddingsClient = &OpenAIEmbeddingsClient{}

func NewOpenAIEmbeddingsClient(ctx context.Context, cfg *config.Config) (*OpenAIEmbeddingsClient, error) {
	client := &OpenAIEmbeddingsClient{}
	err := client.Init(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

type OpenAIEmbeddingsClient struct {
	client *openai.Chat
}

func (c *OpenAIEmbeddingsClient) Init(_ context.Context, cfg *config.Config) error {
	options := c.configureClient(cfg)

	// Create a new client instance with options. Even though it is only used
	// for embeddings, it uses the same langchain openai chat client builder.
	client, err := openai.NewChat(options...)
	if err != nil {
		return err
	}

	c.client = client

	return nil
}

func (c *OpenAIEmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if c.client == nil {
		return nil, NewEmbeddingsClientError("embeddings client is not initialized", nil)
	}

	thisCtx, cancel := context.WithTimeout(ctx, OpenAIAPITimeout)
	defer cancel()

	embeddings, err := c.client.CreateEmbedding(thisCtx, texts)
	if err != nil {
		return nil, NewEmbeddingsClientError("error while creating embedding", err)
	}

	return embeddings, nil
}

func getValidOpenAIModel() string {
	for k := range ValidOpenAILLMs {
		return k
	}
	return "gpt-4o-mini"
}

func (c *OpenAIEmbeddingsClient) configureClient(cfg *config.Config) []openai.Option {
	apiKey := GetOpenAIAPIKey(cfg, EmbeddingsClientType)

	// Even though the client is only used for embeddings, we must pass a
	// valid chat model name to the builder to avoid validation errors.
	validOpenAILLMModel := getValidOpenAIModel()

	options := GetBaseOpenAIClientOptions(apiKey, validOpenAILLMModel)
	options = ConfigureOpenAIClientOptions(options, cfg, EmbeddingsClientType)

	return options
}
