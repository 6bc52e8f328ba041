package models

import (
	"fmt"
	"strings"
)

// ReportKind identifies which narration the pipeline produces for a run.
type ReportKind string

const (
	// ReportNone means nothing is scheduled for the current time slot
	ReportNone ReportKind = "none"
	// ReportPremarket is the forward-looking weekday morning report
	ReportPremarket ReportKind = "premarket"
	// ReportPostmarket is the factual weekday session wrap
	ReportPostmarket ReportKind = "postmarket"
	// ReportWeekly is the detailed Sunday analysis
	ReportWeekly ReportKind = "weekly"
)

// String returns the kind as its wire/file name form.
func (k ReportKind) String() string {
	return string(k)
}

// ParseReportKind maps a CLI/config value to a ReportKind.
func ParseReportKind(s string) (ReportKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "premarket":
		return ReportPremarket, nil
	case "postmarket":
		return ReportPostmarket, nil
	case "weekly":
		return ReportWeekly, nil
	case "none":
		return ReportNone, nil
	default:
		return ReportNone, fmt.Errorf("unknown report kind %q", s)
	}
}
