// Package briefing loads the hand-authored contextual fields that accompany
// the numeric index data in each report: global cues, sector lists, macro
// notes and derivatives statistics. These are editorial inputs, not live
// data - files under the briefing directory override built-in defaults.
package briefing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalCues summarizes the overnight global backdrop for premarket reports.
type GlobalCues struct {
	USMarkets string `yaml:"us_markets"`
	Asia      string `yaml:"asia"`
	Crude     string `yaml:"crude"`
	USDINR    string `yaml:"usd_inr"`
}

// Sectors carries sector rotation fields. Gainers/Losers feed the postmarket
// report; Leaders/Laggards feed the weekly one.
type Sectors struct {
	Gainers  []string `yaml:"gainers"`
	Losers   []string `yaml:"losers"`
	Leaders  []string `yaml:"leaders"`
	Laggards []string `yaml:"laggards"`
	Rotation string   `yaml:"rotation"`
	Breadth  string   `yaml:"breadth"`
}

// Derivatives holds options-market statistics passed through as opaque
// context. Pointers distinguish absent from zero; absent fields are simply
// omitted from the narration.
type Derivatives struct {
	PCR      *float64 `yaml:"pcr"`
	VIX      *float64 `yaml:"vix"`
	OITrend  string   `yaml:"oi_trend"`
	MaxPain  *float64 `yaml:"max_pain"`
	VIXTrend string   `yaml:"vix_trend"`
}

// Macro holds weekly macro driver notes.
type Macro struct {
	Inflation string `yaml:"inflation"`
	Rates     string `yaml:"rates"`
	Global    string `yaml:"global"`
}

// Bundle aggregates all briefing inputs for one run.
type Bundle struct {
	GlobalCues  GlobalCues  `yaml:"global_cues"`
	Sectors     Sectors     `yaml:"sectors"`
	Derivatives Derivatives `yaml:"derivatives"`
	Macro       Macro       `yaml:"macro"`
}

// DefaultBundle returns the built-in editorial placeholders used when no
// briefing file is present.
func DefaultBundle() Bundle {
	return Bundle{
		GlobalCues: GlobalCues{
			USMarkets: "Mixed",
			Asia:      "Cautious",
			Crude:     "Stable",
			USDINR:    "Range-bound",
		},
		Sectors: Sectors{
			Gainers:  []string{"IT", "Pharma"},
			Losers:   []string{"FMCG", "Metal"},
			Leaders:  []string{"IT", "Banking"},
			Laggards: []string{"Metal"},
			Rotation: "Selective buying",
			Breadth:  "Neutral",
		},
		Derivatives: Derivatives{
			VIXTrend: "Low volatility",
		},
		Macro: Macro{
			Inflation: "Stable",
			Rates:     "Unchanged",
			Global:    "Mixed",
		},
	}
}

// Load reads briefing.yaml from dir, merging over the defaults. A missing
// file or directory is not an error; a malformed file is, so a bad edit
// never silently publishes default commentary.
func Load(dir string) (Bundle, error) {
	bundle := DefaultBundle()
	if dir == "" {
		return bundle, nil
	}

	path := filepath.Join(dir, "briefing.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return bundle, nil
		}
		return bundle, fmt.Errorf("failed to read briefing file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return DefaultBundle(), fmt.Errorf("failed to parse briefing file %s: %w", path, err)
	}

	return bundle, nil
}
