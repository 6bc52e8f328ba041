package interfaces

import (
	"context"

	"github.com/ternarybob/tickercast/internal/models"
)

// MarketDataService supplies normalized price data for the report pipeline.
//
// FetchIndexDaily is the never-raising gateway: provider failures and empty
// histories are folded into the returned quote (Valid=false, Error set)
// rather than surfaced as errors, so the pipeline can always continue with
// placeholder wording.
//
// IntradaySeries backs the chart renderer and DOES return errors: a chart
// has no substitute artifact, so an empty or failed series terminates the
// run.
type MarketDataService interface {
	// FetchIndexDaily returns the latest close, previous close and day range
	// for the symbol. Never returns an error past this boundary.
	FetchIndexDaily(ctx context.Context, symbol string) models.IndexQuote

	// IntradaySeries returns a few days of intraday closes for charting,
	// forward-filled over gaps.
	IntradaySeries(ctx context.Context, symbol string) ([]models.Bar, error)
}
