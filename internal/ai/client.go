package ai

import (
	"context"
	"fmt"
	"time"

	"gopherai-interview/internal/config"
)

// Completer sends a conversation to a language model and returns the raw
// text of the reply.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, messages []ChatMessage) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	return f(ctx, messages)
}

var (
	_ Completer = (*OpenAICompatibleClient)(nil)
	_ Completer = (*AnthropicClient)(nil)
)

func NewCompleter(cfg config.LLMConfig) (Completer, error) {
	chatCfg := ChatConfig{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	switch cfg.Provider {
	case "", "openai":
		return NewOpenAICompatibleClient(chatCfg), nil
	case "anthropic":
		return NewAnthropicClient(chatCfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// UserPrompt wraps a single prompt as a one-message conversation.
func UserPrompt(prompt string) []ChatMessage {
	return []ChatMessage{{Role: RoleUser, Content: prompt}}
}
