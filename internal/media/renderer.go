package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/common"
	"github.com/ternarybob/tickercast/internal/interfaces"
)

const disclaimerText = "For educational purposes only. Not investment advice."

// Renderer composes the final vertical clip with ffmpeg. Rendering errors
// are returned to the caller and intentionally terminate the run: there is
// no meaningful fallback artifact for a failed encode.
type Renderer struct {
	config    *common.VideoConfig
	outputDir string
	logger    arbor.ILogger
}

// Compile-time assertion
var _ interfaces.VideoService = (*Renderer)(nil)

// NewRenderer creates a video renderer writing to outputDir.
func NewRenderer(config *common.VideoConfig, outputDir string, logger arbor.ILogger) *Renderer {
	return &Renderer{
		config:    config,
		outputDir: outputDir,
		logger:    logger,
	}
}

// SilentAudio writes a zero-amplitude MP3 of the given duration and
// returns its path. Used as the placeholder track when speech synthesis is
// unavailable so composition always has an audio input.
func (r *Renderer) SilentAudio(ctx context.Context, filename string, seconds int) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(r.outputDir, filename)
	args := []string{
		"-f", "lavfi",
		"-i", "anullsrc=r=44100:cl=mono",
		"-t", strconv.Itoa(seconds),
		"-c:a", "libmp3lame",
		"-y",
		path,
	}

	if err := runFFmpeg(ctx, args); err != nil {
		return "", fmt.Errorf("silent audio generation failed: %w", err)
	}

	r.logger.Info().Str("path", path).Int("seconds", seconds).Msg("Silent placeholder audio written")
	return path, nil
}

// Compose renders the vertical clip: chart image scaled to the full frame
// as background, title text over the first seconds, a semi-opaque
// disclaimer strip along the bottom, and the audio track. Clip length is
// the audio duration capped at the configured ceiling.
func (r *Renderer) Compose(ctx context.Context, chartPath, audioPath, outputName, titleText string) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	audioDur, err := ProbeDuration(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to probe audio duration: %w", err)
	}
	duration := math.Min(audioDur, float64(r.config.MaxDuration))

	outputPath := filepath.Join(r.outputDir, outputName)
	args := r.composeArgs(chartPath, audioPath, outputPath, titleText, duration)

	r.logger.Info().
		Str("chart", chartPath).
		Str("audio", audioPath).
		Str("output", outputPath).
		Float64("duration", duration).
		Msg("Composing video")

	if err := runFFmpeg(ctx, args); err != nil {
		return "", fmt.Errorf("video composition failed: %w", err)
	}

	return outputPath, nil
}

// composeArgs builds the ffmpeg invocation. Split out for testing.
func (r *Renderer) composeArgs(chartPath, audioPath, outputPath, titleText string, duration float64) []string {
	w := r.config.Width
	h := r.config.Height

	filter := strings.Join([]string{
		// Background: chart scaled to cover the frame, then centered crop
		fmt.Sprintf("[0:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d[bg]", w, h, w, h),
		// Title overlay for the first 5 seconds
		fmt.Sprintf("[bg]drawtext=text='%s':fontsize=68:fontcolor=white:x=(w-text_w)/2:y=160:enable='lte(t,5)'[titled]", escapeDrawText(titleText)),
		// Disclaimer strip: semi-opaque bar plus text pinned to the bottom
		fmt.Sprintf("[titled]drawbox=x=0:y=%d:w=%d:h=120:color=black@0.65:t=fill[boxed]", h-140, w),
		fmt.Sprintf("[boxed]drawtext=text='%s':fontsize=30:fontcolor=white:x=(w-text_w)/2:y=%d[out]", escapeDrawText(disclaimerText), h-110),
	}, ";")

	return []string{
		"-loop", "1",
		"-i", chartPath,
		"-i", audioPath,
		"-filter_complex", filter,
		"-map", "[out]",
		"-map", "1:a",
		"-t", fmt.Sprintf("%.2f", duration),
		"-r", strconv.Itoa(r.config.FPS),
		"-c:v", "libx264",
		"-preset", "medium",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-y",
		outputPath,
	}
}

// escapeDrawText escapes the characters ffmpeg's drawtext filter treats
// specially inside a single-quoted filter argument.
func escapeDrawText(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
		`,`, `\,`,
	)
	return replacer.Replace(s)
}
