package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/briefing"
	"github.com/ternarybob/tickercast/internal/common"
	"github.com/ternarybob/tickercast/internal/interfaces"
	"github.com/ternarybob/tickercast/internal/models"
)

const silentAudioSeconds = 30

// Runner executes one report pass end to end: quote, briefing, script,
// audio, chart, video, upload. Stages with a deterministic substitute
// (script, audio) never abort the run; rendering errors propagate
// because no meaningful fallback artifact exists for them. Upload
// failures are logged and the rendered video stays on disk.
type Runner struct {
	config   *common.Config
	market   interfaces.MarketDataService
	composer interfaces.ScriptService
	speech   interfaces.SpeechService
	chart    interfaces.ChartService
	video    interfaces.VideoService
	uploader interfaces.UploadService
	logger   arbor.ILogger
}

// NewRunner wires the pipeline stages together.
func NewRunner(
	config *common.Config,
	market interfaces.MarketDataService,
	composer interfaces.ScriptService,
	speech interfaces.SpeechService,
	chart interfaces.ChartService,
	video interfaces.VideoService,
	uploader interfaces.UploadService,
	logger arbor.ILogger,
) *Runner {
	return &Runner{
		config:   config,
		market:   market,
		composer: composer,
		speech:   speech,
		chart:    chart,
		video:    video,
		uploader: uploader,
		logger:   logger,
	}
}

// Run executes a single pass for the given report kind. ReportNone
// returns immediately without touching any collaborator.
func (r *Runner) Run(ctx context.Context, kind models.ReportKind) error {
	if kind == models.ReportNone {
		r.logger.Info().Msg("Nothing scheduled, exiting")
		return nil
	}

	stamp := time.Now().In(r.config.Location()).Format("20060102_150405")
	baseName := fmt.Sprintf("%s_%s", kind, stamp)
	runID := common.NewRunID()

	r.logger.Info().
		Str("run_id", runID).
		Str("kind", kind.String()).
		Str("symbol", r.config.Market.Symbol).
		Msg("Report run started")

	quote := r.market.FetchIndexDaily(ctx, r.config.Market.Symbol)
	if !quote.Valid {
		r.logger.Warn().Str("error", quote.Error).Msg("Market data unavailable, continuing with placeholders")
	}

	bundle, err := briefing.Load(r.config.Briefing.Dir)
	if err != nil {
		return fmt.Errorf("failed to load briefing: %w", err)
	}

	script := r.composer.Compose(ctx, kind, quote, bundle)
	r.logger.Info().
		Str("source", string(script.Source)).
		Int("words", script.WordCount()).
		Msg("Script composed")

	if r.config.Pipeline.Mode == "script" {
		path, err := r.writeScript(script, baseName)
		if err != nil {
			return err
		}
		r.logger.Info().Str("path", path).Msg("Script-only run complete")
		return nil
	}

	audioPath := r.audioFor(ctx, script, baseName)

	chartPath, err := r.chart.Create(ctx, r.config.Market.Symbol, baseName+".png")
	if err != nil {
		return fmt.Errorf("chart rendering failed: %w", err)
	}

	videoPath, err := r.video.Compose(ctx, chartPath, audioPath, baseName+".mp4", r.title(kind, quote))
	if err != nil {
		return fmt.Errorf("video rendering failed: %w", err)
	}
	r.logger.Info().Str("path", videoPath).Msg("Video rendered")

	if !r.config.Upload.Enabled {
		r.logger.Info().Msg("Upload disabled, leaving artifact on disk")
		return nil
	}

	result, err := r.uploader.Upload(ctx, videoPath, r.videoMeta(kind, quote))
	if err != nil {
		// The artifact stays on disk for a manual re-run.
		r.logger.Error().Err(err).Str("path", videoPath).Msg("Upload failed, artifact left on disk")
		return nil
	}

	r.logger.Info().Str("video_id", result.VideoID).Msg("Report published")
	return nil
}

// audioFor synthesizes narration audio, substituting a silent placeholder
// when the speech provider is unconfigured or fails. The placeholder keeps
// the render stage supplied with an audio input.
func (r *Runner) audioFor(ctx context.Context, script models.Script, baseName string) string {
	path, err := r.speech.Synthesize(ctx, script.Text, baseName+".mp3")
	if err == nil {
		return path
	}

	r.logger.Warn().Err(err).Msg("Speech synthesis unavailable, using silent placeholder")

	silent, silentErr := r.video.SilentAudio(ctx, baseName+"_silent.mp3", silentAudioSeconds)
	if silentErr != nil {
		// Out of options for audio; hand back an empty path and let the
		// render stage fail loudly.
		r.logger.Error().Err(silentErr).Msg("Silent placeholder generation failed")
		return ""
	}
	return silent
}

func (r *Runner) writeScript(script models.Script, baseName string) (string, error) {
	if err := os.MkdirAll(r.config.Pipeline.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(r.config.Pipeline.OutputDir, baseName+".txt")
	if err := os.WriteFile(path, []byte(script.Text), 0644); err != nil {
		return "", fmt.Errorf("failed to write script: %w", err)
	}
	return path, nil
}

func (r *Runner) title(kind models.ReportKind, quote models.IndexQuote) string {
	day := time.Now().In(r.config.Location()).Format("02 Jan 2006")
	name := r.config.Market.DisplayName

	switch kind {
	case models.ReportPremarket:
		return fmt.Sprintf("%s Premarket Report | %s", name, day)
	case models.ReportPostmarket:
		if quote.Valid {
			return fmt.Sprintf("%s Closes %+.2f%% | %s", name, quote.ChangePercent(), day)
		}
		return fmt.Sprintf("%s Postmarket Report | %s", name, day)
	case models.ReportWeekly:
		return fmt.Sprintf("%s Weekly Wrap | %s", name, day)
	default:
		return fmt.Sprintf("%s Market Report | %s", name, day)
	}
}

func (r *Runner) videoMeta(kind models.ReportKind, quote models.IndexQuote) models.VideoMeta {
	name := r.config.Market.DisplayName
	tags := []string{
		name,
		"stock market",
		"indian stock market",
		fmt.Sprintf("%s report", kind),
		"market analysis",
	}

	desc := strings.Join([]string{
		fmt.Sprintf("Automated %s %s report.", name, kind),
		"",
		"Disclaimer: This content is for educational purposes only and is not investment advice.",
	}, "\n")

	return models.VideoMeta{
		Title:       r.title(kind, quote),
		Description: desc,
		Tags:        tags,
		CategoryID:  r.config.Upload.CategoryID,
		Privacy:     r.config.Upload.Privacy,
	}
}
