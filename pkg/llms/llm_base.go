package llms

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getfitted/fitted/config"
	"github.com/getfitted/fitted/internal"
	"github.com/getfitted/fitted/pkg/models"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tmc/langchaingo/llms/openai"
)

const OpenAIAPITimeout = 90 * time.Second
const MaxOpenAIAPIRequestAttempts = 5

const InvalidLLMModelError = "llm model is not set or is invalid"
const OpenAIAPIKeyNotSetError = "FITTED_OPENAI_API_KEY is not set" //nolint:gosec

var log = internal.GetLogger()

type ClientType string

const (
	EmbeddingsClientType ClientType = "embeddings"
	LLMClientType        ClientType = "llm"
)

func NewLLMClient(ctx context.Context, cfg *config.Config) (models.ChatLLM, error) {
	switch cfg.LLM.Service {
	case "openai", "":
		// if a custom OpenAI endpoint is set, do not validate the model name
		if cfg.LLM.OpenAIEndpoint != "" {
			return NewOpenAILLM(ctx, cfg)
		}
		if _, ok := ValidOpenAILLMs[cfg.LLM.Model]; !ok {
			return nil, fmt.Errorf(
				"invalid llm model \"%s\" for %s",
				cfg.LLM.Model,
				cfg.LLM.Service,
			)
		}
		return NewOpenAILLM(ctx, cfg)
	default:
		return nil, fmt.Errorf("invalid llm service: %s", cfg.LLM.Service)
	}
}

type LLMError struct {
	message       string
	originalError error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("llm error: %s (original error: %v)", e.message, e.originalError)
}

func NewLLMError(message string, originalError error) *LLMError {
	return &LLMError{message: message, originalError: originalError}
}

var ValidOpenAILLMs = map[string]bool{
	"gpt-4o":            true,
	"gpt-4o-2024-08-06": true,
	"gpt-4o-mini":       true,
	"gpt-4-turbo":       true,
}

func GetOpenAIAPIKey(cfg *config.Config, clientType ClientType) string {
	var apiKey string

	if clientType == EmbeddingsClientType {
		apiKey = cfg.Embeddings.OpenAIAPIKey
		// the embeddings client falls back to the LLM key; both are usually
		// the same OpenAI account
		if apiKey == "" {
			apiKey = cfg.LLM.OpenAIAPIKey
		}
	} else {
		apiKey = cfg.LLM.OpenAIAPIKey
	}
	if apiKey == "" {
		log.Fatal(OpenAIAPIKeyNotSetError)
	}
	return apiKey
}

func GetBaseOpenAIClientOptions(apiKey, validModel string) []openai.Option {
	retryableHTTPClient := NewRetryableHTTPClient(MaxOpenAIAPIRequestAttempts, OpenAIAPITimeout)

	options := make([]openai.Option, 0)
	options = append(
		options,
		openai.WithHTTPClient(retryableHTTPClient.StandardClient()),
		openai.WithModel(validModel),
		openai.WithToken(apiKey),
	)

	return options
}

func ConfigureOpenAIClientOptions(
	options []openai.Option,
	cfg *config.Config,
	clientType ClientType,
) []openai.Option {
	var openAIEndpoint string
	var openAIOrgID string

	if clientType == EmbeddingsClientType {
		openAIEndpoint = cfg.Embeddings.OpenAIEndpoint
		openAIOrgID = cfg.Embeddings.OpenAIOrgID

		if cfg.Embeddings.Model != "" {
			options = append(options, openai.WithEmbeddingModel(cfg.Embeddings.Model))
		}
	} else {
		openAIEndpoint = cfg.LLM.OpenAIEndpoint
		openAIOrgID = cfg.LLM.OpenAIOrgID
	}

	if openAIEndpoint != "" {
		options = append(options, openai.WithBaseURL(openAIEndpoint))
	}
	if openAIOrgID != "" {
		options = append(options, openai.WithOrganization(openAIOrgID))
	}

	return options
}

func NewRetryableHTTPClient(retryMax int, timeout time.Duration) *retryablehttp.Client {
	retryableHTTPClient := retryablehttp.NewClient()
	retryableHTTPClient.RetryMax = retryMax
	retryableHTTPClient.HTTPClient.Timeout = timeout
	retryableHTTPClient.Logger = internal.NewLeveledLogrus(log)
	retryableHTTPClient.Backoff = retryablehttp.DefaultBackoff
	retryableHTTPClient.CheckRetry = retryPolicy

	return retryableHTTPClient
}

// retryPolicy is a retryablehttp.CheckRetry function. It is used to determine
// whether a request should be retried or not.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	// do not retry on context.Canceled or context.DeadlineExceeded
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	// Do not retry 400 errors as they're used by OpenAI to indicate maximum
	// context length exceeded
	if resp != nil && resp.StatusCode == 400 {
		return false, err
	}

	shouldRetry, _ := retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	return shouldRetry, nil
}
