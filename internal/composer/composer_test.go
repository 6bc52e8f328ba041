package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/briefing"
	"github.com/ternarybob/tickercast/internal/common"
	"github.com/ternarybob/tickercast/internal/models"
)

// stubProvider returns a canned response or error for every request.
type stubProvider struct {
	text     string
	err      error
	lastReq  *ContentRequest
	requests int
}

func (s *stubProvider) GenerateContent(ctx context.Context, req *ContentRequest) (*ContentResponse, error) {
	s.requests++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &ContentResponse{Text: s.text, Provider: "stub", Model: "stub-1"}, nil
}

func (s *stubProvider) Type() common.LLMProvider {
	return common.LLMProvider("stub")
}

func validQuote() models.IndexQuote {
	return models.IndexQuote{
		Symbol:      "^NSEI",
		DisplayName: "NIFTY 50",
		Close:       22500,
		PrevClose:   22380,
		High:        22560,
		Low:         22340,
		Valid:       true,
	}
}

var allKinds = []models.ReportKind{
	models.ReportPremarket,
	models.ReportPostmarket,
	models.ReportWeekly,
}

// A composer without a provider uses the deterministic templates and still
// produces non-empty text with the closing disclaimer for every kind.
func TestComposer_NilProviderFallsBack(t *testing.T) {
	c := New(nil, arbor.NewLogger())
	bundle := briefing.DefaultBundle()

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {
			script := c.Compose(context.Background(), kind, validQuote(), bundle)

			assert.Equal(t, kind, script.Kind)
			assert.Equal(t, models.ScriptFallback, script.Source)
			assert.NotEmpty(t, script.Text)
			assert.Contains(t, script.Text, Disclaimer)
		})
	}
}

func TestComposer_GeneratedScript(t *testing.T) {
	provider := &stubProvider{text: "Markets opened steady today. " + Disclaimer}
	c := New(provider, arbor.NewLogger())

	script := c.Compose(context.Background(), models.ReportPremarket, validQuote(), briefing.DefaultBundle())

	assert.Equal(t, models.ScriptGenerated, script.Source)
	assert.Equal(t, "Markets opened steady today. "+Disclaimer, script.Text)
	assert.Equal(t, 1, provider.requests)
}

func TestComposer_PromptCarriesDataAndRules(t *testing.T) {
	provider := &stubProvider{text: "ok"}
	c := New(provider, arbor.NewLogger())

	c.Compose(context.Background(), models.ReportPremarket, validQuote(), briefing.DefaultBundle())

	require.NotNil(t, provider.lastReq)
	require.Len(t, provider.lastReq.Messages, 2)

	prompt := provider.lastReq.Messages[1].Content
	assert.Contains(t, prompt, "NIFTY 50 closed at 22500.00, +0.54% on the day.")
	assert.Contains(t, prompt, "NO buy/sell calls")
	assert.Contains(t, prompt, Disclaimer)
	assert.Equal(t, PremarketMaxWords*2, provider.lastReq.MaxTokens)
}

func TestComposer_ProviderErrorFallsBack(t *testing.T) {
	provider := &stubProvider{err: errors.New("quota exceeded")}
	c := New(provider, arbor.NewLogger())

	script := c.Compose(context.Background(), models.ReportPostmarket, validQuote(), briefing.DefaultBundle())

	assert.Equal(t, models.ScriptFallback, script.Source)
	assert.NotEmpty(t, script.Text)
	assert.Contains(t, script.Text, Disclaimer)
}

func TestComposer_EmptyResponseFallsBack(t *testing.T) {
	provider := &stubProvider{text: "   \n  "}
	c := New(provider, arbor.NewLogger())

	script := c.Compose(context.Background(), models.ReportWeekly, validQuote(), briefing.DefaultBundle())

	assert.Equal(t, models.ScriptFallback, script.Source)
	assert.NotEmpty(t, script.Text)
}

func TestIndexSummary(t *testing.T) {
	tests := []struct {
		name  string
		quote models.IndexQuote
		want  string
	}{
		{
			name:  "valid with range",
			quote: validQuote(),
			want:  "NIFTY 50 closed at 22500.00, +0.54% on the day. Day range was 22340.00-22560.00.",
		},
		{
			name: "valid without range",
			quote: models.IndexQuote{
				DisplayName: "NIFTY 50", Close: 22500, PrevClose: 22380, Valid: true,
			},
			want: "NIFTY 50 closed at 22500.00, +0.54% on the day.",
		},
		{
			name:  "invalid quote reads neutral",
			quote: models.IndexQuote{Error: "no historical data returned"},
			want:  "Index data was mixed with limited clarity.",
		},
		{
			name: "symbol when no display name",
			quote: models.IndexQuote{
				Symbol: "^NSEI", Close: 22500, PrevClose: 22500, Valid: true,
			},
			want: "^NSEI closed at 22500.00, +0.00% on the day.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, indexSummary(tt.quote))
		})
	}
}

func TestSafeJoin(t *testing.T) {
	assert.Equal(t, "IT, Pharma", safeJoin([]string{"IT", "Pharma"}))
	assert.Equal(t, "data not available", safeJoin(nil))
	assert.Equal(t, "data not available", safeJoin([]string{}))
}

func TestDerivativesSummary(t *testing.T) {
	pcr := 0.95
	vix := 13.2

	got := derivativesSummary(briefing.Derivatives{PCR: &pcr, VIX: &vix, OITrend: "short buildup"})
	assert.Equal(t, "PCR at 0.95, India VIX near 13.2, OI indicates short buildup", got)

	assert.Equal(t, "derivatives data was neutral", derivativesSummary(briefing.Derivatives{}))
}

// The weekly fallback is static; premarket and postmarket embed the quote.
func TestFallbackTemplates(t *testing.T) {
	q := validQuote()

	pre := fallbackPremarket(q)
	assert.True(t, strings.HasSuffix(pre, Disclaimer))
	assert.Contains(t, pre, "22500.00")

	post := fallbackPostmarket(q, briefing.DefaultBundle().Sectors)
	assert.True(t, strings.HasSuffix(post, Disclaimer))
	assert.Contains(t, post, "IT")

	weekly := fallbackWeekly()
	assert.True(t, strings.HasSuffix(weekly, Disclaimer))
}
