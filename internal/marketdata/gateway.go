package marketdata

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/interfaces"
	"github.com/ternarybob/tickercast/internal/models"
)

// Gateway normalizes provider responses into the value records the pipeline
// consumes. It is the never-raising boundary around the chart API: daily
// quote failures are folded into the returned IndexQuote instead of
// propagating.
type Gateway struct {
	client      *Client
	displayName string
	logger      arbor.ILogger
}

// Compile-time assertion
var _ interfaces.MarketDataService = (*Gateway)(nil)

// NewGateway creates a gateway around the given client. displayName is the
// human index name substituted into narration (e.g. "NIFTY 50").
func NewGateway(client *Client, displayName string, logger arbor.ILogger) *Gateway {
	return &Gateway{
		client:      client,
		displayName: displayName,
		logger:      logger,
	}
}

// FetchIndexDaily fetches a few days of daily bars and reduces them to the
// latest close and previous close. Empty histories and transport errors
// both yield an invalid quote carrying an error string - never an error
// value, so the pipeline always proceeds to the composer.
func (g *Gateway) FetchIndexDaily(ctx context.Context, symbol string) models.IndexQuote {
	quote := models.IndexQuote{
		Symbol:      symbol,
		DisplayName: g.displayName,
	}

	// 5 days of daily bars rides out weekends and market holidays
	bars, err := g.client.GetBars(ctx, symbol, WithRange("5d"), WithInterval("1d"))
	if err != nil {
		g.logger.Warn().Err(err).Str("symbol", symbol).Msg("Daily bar fetch failed")
		quote.Error = "failed to fetch historical data: " + err.Error()
		return quote
	}

	if len(bars) == 0 {
		quote.Error = "no historical data returned"
		return quote
	}

	last := bars[len(bars)-1]
	prev := last
	if len(bars) >= 2 {
		prev = bars[len(bars)-2]
	}

	quote.Valid = true
	quote.Close = last.Close
	quote.PrevClose = prev.Close
	quote.High = last.High
	quote.Low = last.Low

	g.logger.Debug().
		Str("symbol", symbol).
		Float64("close", quote.Close).
		Float64("prev_close", quote.PrevClose).
		Msg("Index quote normalized")

	return quote
}

// IntradaySeries returns ~5 days of 15-minute closes for the chart
// renderer, forward-filled over gaps. Unlike FetchIndexDaily this surfaces
// errors: a chart has no placeholder.
func (g *Gateway) IntradaySeries(ctx context.Context, symbol string) ([]models.Bar, error) {
	bars, err := g.client.GetBars(ctx, symbol, WithRange("5d"), WithInterval("15m"))
	if err != nil {
		return nil, err
	}
	return ForwardFill(bars), nil
}

// ForwardFill replaces zero closes with the previous non-zero close so the
// chart line has no drops to the axis. Leading zeros are removed.
func ForwardFill(bars []models.Bar) []models.Bar {
	filled := make([]models.Bar, 0, len(bars))
	var lastClose float64
	for _, bar := range bars {
		if bar.Close == 0 {
			if lastClose == 0 {
				continue
			}
			bar.Close = lastClose
		}
		lastClose = bar.Close
		filled = append(filled, bar)
	}
	return filled
}
