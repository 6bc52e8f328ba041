package interfaces

import "context"

// ChartService renders the background chart image for a report.
// Errors propagate: an empty price series has no fallback artifact.
type ChartService interface {
	Create(ctx context.Context, symbol, filename string) (string, error)
}

// VideoService composes the final vertical clip and provides the silent
// placeholder audio used when speech synthesis is unavailable.
type VideoService interface {
	// Compose renders chart + title + disclaimer strip + audio into outputName.
	Compose(ctx context.Context, chartPath, audioPath, outputName, titleText string) (string, error)

	// SilentAudio writes a zero-amplitude track of at least the given
	// duration in seconds and returns its path.
	SilentAudio(ctx context.Context, filename string, seconds int) (string, error)
}
