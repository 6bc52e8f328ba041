package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/briefing"
	"github.com/ternarybob/tickercast/internal/interfaces"
	"github.com/ternarybob/tickercast/internal/models"
)

const (
	// PremarketMaxWords bounds the premarket voice-over (~2m45s).
	PremarketMaxWords = 380
	// PostmarketMaxWords bounds the postmarket voice-over.
	PostmarketMaxWords = 380
	// WeeklyMaxWords bounds the detailed weekly analysis.
	WeeklyMaxWords = 800

	systemInstruction = "You are a professional Indian market analyst."
)

// Composer produces narration scripts for each report kind. It never fails
// and never returns empty text: a nil provider, a provider error or an
// empty provider response all route to the deterministic fallback.
type Composer struct {
	provider Provider // nil when generation is unconfigured
	logger   arbor.ILogger
}

// Compile-time assertion
var _ interfaces.ScriptService = (*Composer)(nil)

// New creates a composer. provider may be nil, in which case every script
// comes from the fallback templates.
func New(provider Provider, logger arbor.ILogger) *Composer {
	return &Composer{
		provider: provider,
		logger:   logger,
	}
}

// Compose dispatches to the report-specific script builder.
func (c *Composer) Compose(ctx context.Context, kind models.ReportKind, quote models.IndexQuote, bundle briefing.Bundle) models.Script {
	switch kind {
	case models.ReportPremarket:
		return c.premarket(ctx, quote, bundle)
	case models.ReportPostmarket:
		return c.postmarket(ctx, quote, bundle)
	case models.ReportWeekly:
		return c.weekly(ctx, quote, bundle)
	default:
		// No report scheduled; callers should not reach here, but the
		// contract stays total and non-empty.
		return models.Script{Kind: kind, Text: fallbackWeekly(), Source: models.ScriptFallback}
	}
}

func (c *Composer) premarket(ctx context.Context, quote models.IndexQuote, bundle briefing.Bundle) models.Script {
	prompt := fmt.Sprintf(`Create a professional Indian stock market PREMARKET script
for a YouTube voice-over (max %d words).

DATA:
Index data: %s
Global cues: US markets %s, Asia %s, crude %s, USD/INR %s
Derivatives: %s

TASK:
- Interpret data to infer opening sentiment
- Provide trend bias (bullish / bearish / range-bound)
- Project intraday support and resistance (clearly as expectations)
- Mention key global and macro drivers
- NO buy/sell calls
- Use cautious language like "likely", "expected"
- End with this exact disclaimer: %q`,
		PremarketMaxWords,
		indexSummary(quote),
		bundle.GlobalCues.USMarkets, bundle.GlobalCues.Asia, bundle.GlobalCues.Crude, bundle.GlobalCues.USDINR,
		derivativesSummary(bundle.Derivatives),
		Disclaimer,
	)

	return c.generate(ctx, models.ReportPremarket, prompt, PremarketMaxWords, func() string {
		return fallbackPremarket(quote)
	})
}

func (c *Composer) postmarket(ctx context.Context, quote models.IndexQuote, bundle briefing.Bundle) models.Script {
	prompt := fmt.Sprintf(`Create a factual Indian stock market POSTMARKET script
for a YouTube voice-over (max %d words).

DATA:
Index data: %s
Sector gainers: %s
Sector losers: %s
Rotation: %s; market breadth: %s
Derivatives: %s

TASK:
- Summarize index performance
- Mention sector gainers and losers
- Explain sector rotation and market breadth
- Briefly reference derivatives and global cues
- NO buy/sell calls
- End with this exact disclaimer: %q`,
		PostmarketMaxWords,
		indexSummary(quote),
		safeJoin(bundle.Sectors.Gainers),
		safeJoin(bundle.Sectors.Losers),
		bundle.Sectors.Rotation, bundle.Sectors.Breadth,
		derivativesSummary(bundle.Derivatives),
		Disclaimer,
	)

	return c.generate(ctx, models.ReportPostmarket, prompt, PostmarketMaxWords, func() string {
		return fallbackPostmarket(quote, bundle.Sectors)
	})
}

func (c *Composer) weekly(ctx context.Context, quote models.IndexQuote, bundle briefing.Bundle) models.Script {
	prompt := fmt.Sprintf(`Create a DETAILED weekly Indian stock market analysis
for a YouTube video (max %d words).

DATA:
Weekly index data: %s
Leading sectors: %s
Lagging sectors: %s
Macro drivers: inflation %s, rates %s, global %s
Derivatives & VIX trend: %s

TASK:
- Explain weekly index trend
- Highlight leading and lagging sectors
- Describe sector rotation theme
- Cover global and domestic macro drivers
- Discuss derivatives and volatility trend
- Provide cautious outlook for next week
- NO buy/sell calls
- End with this exact disclaimer: %q`,
		WeeklyMaxWords,
		indexSummary(quote),
		safeJoin(bundle.Sectors.Leaders),
		safeJoin(bundle.Sectors.Laggards),
		bundle.Macro.Inflation, bundle.Macro.Rates, bundle.Macro.Global,
		derivativesSummary(bundle.Derivatives),
		Disclaimer,
	)

	return c.generate(ctx, models.ReportWeekly, prompt, WeeklyMaxWords, func() string {
		return fallbackWeekly()
	})
}

// generate runs the provider with the given prompt, substituting the
// fallback text when the provider is absent, errors, or returns nothing.
// The word budget is advisory: passed as a generation parameter, never
// enforced on the fallback.
func (c *Composer) generate(ctx context.Context, kind models.ReportKind, prompt string, maxWords int, fallback func() string) models.Script {
	if c.provider == nil {
		return models.Script{Kind: kind, Text: fallback(), Source: models.ScriptFallback}
	}

	resp, err := c.provider.GenerateContent(ctx, &ContentRequest{
		Messages: []Message{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		// Rough tokens-per-word headroom so the budget lands on words
		MaxTokens: maxWords * 2,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("kind", kind.String()).Msg("Script generation failed, using fallback")
		return models.Script{Kind: kind, Text: fallback(), Source: models.ScriptFallback}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		c.logger.Warn().Str("kind", kind.String()).Msg("Script generation returned empty text, using fallback")
		return models.Script{Kind: kind, Text: fallback(), Source: models.ScriptFallback}
	}

	c.logger.Info().
		Str("kind", kind.String()).
		Str("provider", string(resp.Provider)).
		Str("model", resp.Model).
		Msg("Script generated")

	return models.Script{Kind: kind, Text: text, Source: models.ScriptGenerated}
}
