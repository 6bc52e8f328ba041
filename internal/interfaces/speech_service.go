package interfaces

import "context"

// SpeechService converts narration text to an audio file.
//
// Synthesize returns the written file path. When the provider credentials
// are not configured it returns speech.ErrNotConfigured without attempting
// any network I/O - an expected state, not a failure. The caller substitutes
// a silent placeholder track in that case.
type SpeechService interface {
	Synthesize(ctx context.Context, text, filename string) (string, error)
}
