package ai

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

type AnthropicClient struct {
	client *anthropic.Client
	cfg    ChatConfig
}

func NewAnthropicClient(cfg ChatConfig) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(cfg.APIKey),
		cfg:    cfg,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	maxTokens := c.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	var systemParts []anthropic.MessageSystemPart
	var msgs []anthropic.Message
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			systemParts = append(systemParts, anthropic.MessageSystemPart{
				Type: "text",
				Text: msg.Content,
			})
			continue
		}
		msgs = append(msgs, anthropic.Message{
			Role:    anthropic.RoleUser,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(msg.Content)},
		})
	}

	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(c.cfg.Model),
		Messages:  msgs,
		MaxTokens: maxTokens,
	}
	if len(systemParts) > 0 {
		req.MultiSystem = systemParts
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text.WriteString(*block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty anthropic response")
	}
	return text.String(), nil
}

