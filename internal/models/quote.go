package models

import "time"

// Bar is a single OHLC sample from the market data provider.
type Bar struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// IndexQuote is the normalized daily snapshot the script composer consumes.
// Produced fresh per run by the market data gateway and never mutated.
// When the provider returns nothing usable, Valid is false and Error carries
// the reason; the pipeline continues with placeholder wording rather than
// halting.
type IndexQuote struct {
	Symbol      string
	DisplayName string
	Close       float64
	PrevClose   float64
	High        float64
	Low         float64
	Valid       bool
	Error       string
}

// ChangePercent returns the percent change from PrevClose to Close.
// A zero or absent previous close yields a defined 0 instead of a division
// error, so a single-bar history reads as a flat session.
func (q IndexQuote) ChangePercent() float64 {
	if !q.Valid || q.PrevClose == 0 {
		return 0
	}
	return (q.Close - q.PrevClose) / q.PrevClose * 100
}

// HasRange reports whether the day high/low fields carry data.
func (q IndexQuote) HasRange() bool {
	return q.Valid && q.High != 0 && q.Low != 0
}
