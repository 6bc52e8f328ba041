package scheduler

import (
	"testing"
	"time"

	"github.com/ternarybob/tickercast/internal/models"
)

// date builds a timestamp on the given weekday at the given hour.
// 2026-08-24 is a Monday.
func date(weekday time.Weekday, hour int) time.Time {
	base := time.Date(2026, 8, 24, hour, 0, 0, 0, time.UTC)
	offset := int(weekday - time.Monday)
	if offset < 0 {
		offset += 7
	}
	return base.AddDate(0, 0, offset)
}

func TestPlan_RangePolicy(t *testing.T) {
	tests := []struct {
		name    string
		weekday time.Weekday
		hour    int
		want    models.ReportKind
	}{
		{"saturday morning", time.Saturday, 9, models.ReportNone},
		{"saturday evening", time.Saturday, 18, models.ReportNone},
		{"sunday any hour", time.Sunday, 10, models.ReportWeekly},
		{"sunday midnight", time.Sunday, 0, models.ReportWeekly},
		{"monday early", time.Monday, 8, models.ReportPremarket},
		{"wednesday late morning", time.Wednesday, 11, models.ReportPremarket},
		{"monday noon", time.Monday, 12, models.ReportPostmarket},
		{"friday evening", time.Friday, 18, models.ReportPostmarket},
		{"friday midnight", time.Friday, 0, models.ReportPremarket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(date(tt.weekday, tt.hour), PolicyRange)
			if got != tt.want {
				t.Errorf("Plan(%s %02d:00, range) = %s, want %s", tt.weekday, tt.hour, got, tt.want)
			}
		})
	}
}

func TestPlan_ExactPolicy(t *testing.T) {
	tests := []struct {
		name    string
		weekday time.Weekday
		hour    int
		want    models.ReportKind
	}{
		{"weekday 8am", time.Tuesday, 8, models.ReportPremarket},
		{"weekday 6pm", time.Thursday, 18, models.ReportPostmarket},
		{"sunday 10am", time.Sunday, 10, models.ReportWeekly},
		{"sunday 11am", time.Sunday, 11, models.ReportNone},
		{"weekday off-hour", time.Monday, 9, models.ReportNone},
		{"saturday 8am", time.Saturday, 8, models.ReportNone},
		{"saturday 10am", time.Saturday, 10, models.ReportNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(date(tt.weekday, tt.hour), PolicyExact)
			if got != tt.want {
				t.Errorf("Plan(%s %02d:00, exact) = %s, want %s", tt.weekday, tt.hour, got, tt.want)
			}
		})
	}
}

// Every (weekday, hour) pair must yield exactly one defined kind under
// both policies; the default branch makes the mapping total.
func TestPlan_Total(t *testing.T) {
	known := map[models.ReportKind]bool{
		models.ReportNone:       true,
		models.ReportPremarket:  true,
		models.ReportPostmarket: true,
		models.ReportWeekly:     true,
	}

	for _, policy := range []Policy{PolicyRange, PolicyExact} {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			for hour := 0; hour < 24; hour++ {
				got := Plan(date(wd, hour), policy)
				if !known[got] {
					t.Fatalf("Plan(%s %02d:00, %s) = %q, not a defined kind", wd, hour, policy, got)
				}
			}
		}
	}
}

// An unrecognized policy string falls back to the range policy.
func TestPlan_UnknownPolicyDefaultsToRange(t *testing.T) {
	got := Plan(date(time.Sunday, 15), Policy("bogus"))
	if got != models.ReportWeekly {
		t.Errorf("Plan(Sunday, unknown policy) = %s, want %s", got, models.ReportWeekly)
	}
}
