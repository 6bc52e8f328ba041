package composer

import (
	"fmt"
	"strings"

	"github.com/ternarybob/tickercast/internal/briefing"
	"github.com/ternarybob/tickercast/internal/models"
)

// Disclaimer is the SEBI-style closing sentence. It appears verbatim in
// every script: the generation prompts demand it and every fallback
// template embeds it.
const Disclaimer = "This content is for educational purposes only. " +
	"Markets are subject to risk. Please consult your financial advisor " +
	"before taking any investment decisions."

// indexSummary renders the quote as a narration sentence. Invalid quotes
// read as a neutral placeholder rather than broken numbers.
func indexSummary(q models.IndexQuote) string {
	if !q.Valid {
		return "Index data was mixed with limited clarity."
	}

	name := q.DisplayName
	if name == "" {
		name = q.Symbol
	}

	summary := fmt.Sprintf("%s closed at %.2f, %+.2f%% on the day.", name, q.Close, q.ChangePercent())
	if q.HasRange() {
		summary += fmt.Sprintf(" Day range was %.2f-%.2f.", q.Low, q.High)
	}
	return summary
}

// safeJoin joins a list for narration, with a defined placeholder for
// empty input.
func safeJoin(items []string) string {
	if len(items) == 0 {
		return "data not available"
	}
	return strings.Join(items, ", ")
}

// derivativesSummary renders whichever derivatives fields are present.
func derivativesSummary(d briefing.Derivatives) string {
	var parts []string
	if d.PCR != nil {
		parts = append(parts, fmt.Sprintf("PCR at %.2f", *d.PCR))
	}
	if d.VIX != nil {
		parts = append(parts, fmt.Sprintf("India VIX near %.1f", *d.VIX))
	}
	if d.OITrend != "" {
		parts = append(parts, "OI indicates "+d.OITrend)
	}
	if d.MaxPain != nil {
		parts = append(parts, fmt.Sprintf("Max pain around %.0f", *d.MaxPain))
	}
	if d.VIXTrend != "" {
		parts = append(parts, "VIX trend: "+d.VIXTrend)
	}
	if len(parts) == 0 {
		return "derivatives data was neutral"
	}
	return strings.Join(parts, ", ")
}

func fallbackPremarket(q models.IndexQuote) string {
	return "Indian markets are set to open today amid mixed global cues. " +
		indexSummary(q) + " " +
		"Derivatives positioning suggests a cautious start. " +
		"Traders should watch global markets, crude oil, and key news events. " +
		Disclaimer
}

func fallbackPostmarket(q models.IndexQuote, sectors briefing.Sectors) string {
	return "Indian markets ended the session on a mixed note. " +
		indexSummary(q) + " " +
		fmt.Sprintf("Sectoral action was seen in %s, while pressure was visible in %s. ",
			safeJoin(sectors.Gainers), safeJoin(sectors.Losers)) +
		Disclaimer
}

func fallbackWeekly() string {
	return "Indian equity markets concluded the week with selective participation. " +
		"Index trends remained range-bound as global and domestic factors influenced sentiment. " +
		"Sector rotation and volatility trends will be key to watch next week. " +
		Disclaimer
}
