// Package marketdata provides a client for the Yahoo Finance chart API and
// the normalizing gateway the report pipeline consumes.
package marketdata

import (
	"fmt"
	"time"
)

// QueryOption represents an optional parameter for chart queries.
type QueryOption func(*queryParams)

// queryParams holds optional query parameters.
type queryParams struct {
	Range    string // 1d, 5d, 1mo, ...
	Interval string // 1d, 15m, ...
}

// WithRange sets the lookback range for the query (e.g. "5d").
func WithRange(r string) QueryOption {
	return func(p *queryParams) {
		p.Range = r
	}
}

// WithInterval sets the bar interval (e.g. "1d", "15m").
func WithInterval(interval string) QueryOption {
	return func(p *queryParams) {
		p.Interval = interval
	}
}

// APIError represents an error response from the chart API.
type APIError struct {
	StatusCode int
	Message    string
	Symbol     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market data API error: %s (status: %d, symbol: %s)", e.Message, e.StatusCode, e.Symbol)
}

// RateLimitError represents a client-side rate limit wait failure.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("market data rate limit exceeded, retry after %v", e.RetryAfter)
}

// chartResponse mirrors the Yahoo v8 chart JSON envelope.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol   string  `json:"symbol"`
		Currency string  `json:"currency"`
		Price    float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		// Pointer slices: the API emits null for halted/missing samples
		Quote []struct {
			Open  []*float64 `json:"open"`
			High  []*float64 `json:"high"`
			Low   []*float64 `json:"low"`
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}
