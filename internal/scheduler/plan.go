package scheduler

import (
	"time"

	"github.com/ternarybob/tickercast/internal/models"
)

// Policy selects how wall-clock time maps to a report kind.
type Policy string

const (
	// PolicyRange maps Monday-Friday mornings to premarket and the rest of
	// the trading day to postmarket; Sunday is the weekly wrap.
	PolicyRange Policy = "range"

	// PolicyExact produces a report only at the designated hour: 08:00
	// premarket, 18:00 postmarket on weekdays, 10:00 Sunday weekly.
	// Every other hour yields none, so a cron-driven run exits quietly.
	PolicyExact Policy = "exact"
)

// Plan maps the local timestamp to the report kind due at that moment.
// Total over all inputs: every (weekday, hour) pair yields exactly one
// kind, with ReportNone as the default branch. Saturday never reports.
func Plan(t time.Time, policy Policy) models.ReportKind {
	weekday := t.Weekday()
	hour := t.Hour()

	switch policy {
	case PolicyExact:
		switch {
		case weekday == time.Sunday && hour == 10:
			return models.ReportWeekly
		case weekday >= time.Monday && weekday <= time.Friday && hour == 8:
			return models.ReportPremarket
		case weekday >= time.Monday && weekday <= time.Friday && hour == 18:
			return models.ReportPostmarket
		default:
			return models.ReportNone
		}
	default:
		switch {
		case weekday == time.Saturday:
			return models.ReportNone
		case weekday == time.Sunday:
			return models.ReportWeekly
		case hour < 12:
			return models.ReportPremarket
		default:
			return models.ReportPostmarket
		}
	}
}
