package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"slidesmith/config"
)

// TextGenerator is the narrow slice of an eino chat model the synthesizer
// needs. Tests substitute a stub.
type TextGenerator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// LLMService wraps the configured eino chat model.
type LLMService struct {
	chatModel model.ChatModel
	logger    func(string)
}

// NewLLMService creates the chat model from config. Only OpenAI and
// OpenAI-compatible endpoints are supported; the base URL may point at any
// server speaking the chat-completions protocol.
func NewLLMService(cfg config.Config, logger func(string)) (*LLMService, error) {
	mcfg := &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.ModelName,
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		mcfg.MaxTokens = &maxTokens
	}
	chatModel, err := openai.NewChatModel(context.Background(), mcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model: %w", err)
	}
	return &LLMService{chatModel: chatModel, logger: logger}, nil
}

// Generate sends one system+user exchange and returns the raw response.
func (s *LLMService) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return s.chatModel.Generate(ctx, input, opts...)
}
