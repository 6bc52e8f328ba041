package models

// ScriptSource records how a narration script was produced.
type ScriptSource string

const (
	// ScriptGenerated means the text came from the configured AI provider
	ScriptGenerated ScriptSource = "generated"
	// ScriptFallback means the deterministic template path produced the text
	ScriptFallback ScriptSource = "fallback"
)

// Script is the narration for one report. Text is always non-empty: when
// generation is unconfigured or fails, the composer substitutes the
// deterministic fallback and marks the source accordingly.
type Script struct {
	Kind   ReportKind
	Text   string
	Source ScriptSource
}

// WordCount returns a rough word count for logging and budget checks.
func (s Script) WordCount() int {
	count := 0
	inWord := false
	for _, r := range s.Text {
		if r == ' ' || r == '\n' || r == '\t' {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}
