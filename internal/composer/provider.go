// Package composer turns an index quote and briefing bundle into narration
// scripts, delegating to a generative provider when one is configured and
// falling back to deterministic templates when it is not (or when it fails).
package composer

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/common"
)

// Message represents a single message in a generation conversation
type Message struct {
	// Role identifies the message sender: "user" or "system"
	Role string
	// Content contains the text content of the message
	Content string
}

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Messages          []Message
	Temperature       float32
	MaxTokens         int
	SystemInstruction string
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider common.LLMProvider
	Model    string
}

// Provider defines the interface for AI content generation
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	Type() common.LLMProvider
}

// NewProvider creates the configured generation provider. A nil Provider
// with nil error means generation is intentionally unconfigured (provider
// "none", or the selected provider has no API key) and the composer should
// use the fallback path - the not-configured state is not an error.
func NewProvider(ctx context.Context, config *common.Config, logger arbor.ILogger) (Provider, error) {
	switch config.LLM.Provider {
	case common.LLMProviderNone:
		return nil, nil

	case common.LLMProviderGemini:
		if config.Gemini.APIKey == "" {
			logger.Info().Msg("Gemini API key not set; script generation disabled")
			return nil, nil
		}
		return NewGeminiProvider(ctx, &config.Gemini, logger)

	case common.LLMProviderClaude:
		if config.Claude.APIKey == "" {
			logger.Info().Msg("Anthropic API key not set; script generation disabled")
			return nil, nil
		}
		return NewClaudeProvider(&config.Claude, logger)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.LLM.Provider)
	}
}
