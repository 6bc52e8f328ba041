package composer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/common"
)

// ClaudeProvider generates content using the Anthropic Claude API.
type ClaudeProvider struct {
	config  *common.ClaudeConfig
	client  anthropic.Client
	logger  arbor.ILogger
	timeout time.Duration
}

// NewClaudeProvider creates a Claude-backed generation provider.
func NewClaudeProvider(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeProvider, error) {
	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid Claude timeout duration '%s': %w", config.Timeout, err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	logger.Info().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Msg("Claude provider initialized")

	return &ClaudeProvider{
		config:  config,
		client:  client,
		logger:  logger,
		timeout: timeout,
	}, nil
}

// Type returns the provider identifier
func (p *ClaudeProvider) Type() common.LLMProvider {
	return common.LLMProviderClaude
}

// GenerateContent sends a single generation request. One attempt, no retry.
func (p *ClaudeProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	messages, systemText := convertMessagesToClaude(request.Messages)
	if len(messages) == 0 {
		return nil, fmt.Errorf("messages cannot be empty")
	}
	if request.SystemInstruction != "" {
		systemText = request.SystemInstruction
	}

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}

	temp := request.Temperature
	if temp <= 0 {
		temp = p.config.Temperature
	}
	if temp > 0 {
		params.Temperature = anthropic.Float(float64(temp))
	}

	if systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	resp, err := p.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from Claude API")
	}

	return &ContentResponse{
		Text:     text.String(),
		Provider: common.LLMProviderClaude,
		Model:    p.config.Model,
	}, nil
}

// convertMessagesToClaude converts messages to Claude format, extracting
// system messages separately.
func convertMessagesToClaude(messages []Message) ([]anthropic.MessageParam, string) {
	converted := make([]anthropic.MessageParam, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}
		converted = append(converted, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
	}
	return converted, systemText
}
