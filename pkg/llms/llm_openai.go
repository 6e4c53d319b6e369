package llms

import (
	"context"

	"github.com/getfitted/fitted/config"
	"github.com/getfitted/fitted/pkg/models"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

var _ models.ChatLLM = &OpenAILLM{}

func NewOpenAILLM(ctx context.Context, cfg *config.Config) (*OpenAILLM, error) {
	llm := &OpenAILLM{}
	err := llm.Init(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return llm, nil
}

type OpenAILLM struct {
	llm *openai.Chat
	tkm *tiktoken.Tiktoken
}

func (l *OpenAILLM) Init(_ context.Context, cfg *config.Config) error {
	// Initialize the Tiktoken client
	encoding := "cl100k_base"
	tkm, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return err
	}
	l.tkm = tkm

	options := l.configureClient(cfg)

	llm, err := openai.NewChat(options...)
	if err != nil {
		return err
	}
	l.llm = llm

	return nil
}

// Call sends the system and user prompts to the chat model and returns the
// completion content.
func (l *OpenAILLM) Call(
	ctx context.Context,
	systemPrompt string,
	userPrompt string,
) (string, error) {
	if l.llm == nil {
		return "", NewLLMError(InvalidLLMModelError, nil)
	}

	thisCtx, cancel := context.WithTimeout(ctx, OpenAIAPITimeout)
	defer cancel()

	messages := []schema.ChatMessage{
		schema.SystemChatMessage{Content: systemPrompt},
		schema.HumanChatMessage{Content: userPrompt},
	}

	completion, err := l.llm.Call(thisCtx, messages)
	if err != nil {
		return "", err
	}

	return completion.GetContent(), nil
}

// GetTokenCount returns the number of tokens in the text
func (l *OpenAILLM) GetTokenCount(text string) (int, error) {
	return len(l.tkm.Encode(text, nil, nil)), nil
}

func (l *OpenAILLM) configureClient(cfg *config.Config) []openai.Option {
	apiKey := GetOpenAIAPIKey(cfg, LLMClientType)

	options := GetBaseOpenAIClientOptions(apiKey, cfg.LLM.Model)
	options = ConfigureOpenAIClientOptions(options, cfg, LLMClientType)

	return options
}
