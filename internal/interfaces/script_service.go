package interfaces

import (
	"context"

	"github.com/ternarybob/tickercast/internal/briefing"
	"github.com/ternarybob/tickercast/internal/models"
)

// ScriptService produces the narration for a report.
//
// Implementations never return an empty script and never fail: when the
// generative provider is unconfigured or errors, the deterministic fallback
// text is returned with Source set to ScriptFallback.
type ScriptService interface {
	Compose(ctx context.Context, kind models.ReportKind, quote models.IndexQuote, bundle briefing.Bundle) models.Script
}
