package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/briefing"
	"github.com/ternarybob/tickercast/internal/common"
	"github.com/ternarybob/tickercast/internal/models"
	"github.com/ternarybob/tickercast/internal/speech"
)

type fakeMarket struct {
	quote models.IndexQuote
	calls int
}

func (f *fakeMarket) FetchIndexDaily(ctx context.Context, symbol string) models.IndexQuote {
	f.calls++
	return f.quote
}

func (f *fakeMarket) IntradaySeries(ctx context.Context, symbol string) ([]models.Bar, error) {
	return nil, nil
}

type fakeComposer struct {
	text string
}

func (f *fakeComposer) Compose(ctx context.Context, kind models.ReportKind, quote models.IndexQuote, bundle briefing.Bundle) models.Script {
	return models.Script{Kind: kind, Text: f.text, Source: models.ScriptFallback}
}

type fakeSpeech struct {
	path  string
	err   error
	calls int
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text, filename string) (string, error) {
	f.calls++
	return f.path, f.err
}

type fakeChart struct {
	path  string
	err   error
	calls int
}

func (f *fakeChart) Create(ctx context.Context, symbol, filename string) (string, error) {
	f.calls++
	return f.path, f.err
}

type fakeVideo struct {
	path        string
	err         error
	silentCalls int
	composes    int
	lastAudio   string
}

func (f *fakeVideo) Compose(ctx context.Context, chartPath, audioPath, outputName, titleText string) (string, error) {
	f.composes++
	f.lastAudio = audioPath
	return f.path, f.err
}

func (f *fakeVideo) SilentAudio(ctx context.Context, filename string, seconds int) (string, error) {
	f.silentCalls++
	return "silent.mp3", nil
}

type fakeUploader struct {
	result *models.UploadResult
	err    error
	calls  int
	meta   models.VideoMeta
}

func (f *fakeUploader) Upload(ctx context.Context, path string, meta models.VideoMeta) (*models.UploadResult, error) {
	f.calls++
	f.meta = meta
	return f.result, f.err
}

type fixture struct {
	config   *common.Config
	market   *fakeMarket
	composer *fakeComposer
	speech   *fakeSpeech
	chart    *fakeChart
	video    *fakeVideo
	uploader *fakeUploader
	runner   *Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Pipeline.OutputDir = t.TempDir()
	config.Briefing.Dir = ""

	f := &fixture{
		config: config,
		market: &fakeMarket{quote: models.IndexQuote{
			Symbol: "^NSEI", DisplayName: "NIFTY 50",
			Close: 22500, PrevClose: 22380, Valid: true,
		}},
		composer: &fakeComposer{text: "Markets were steady today."},
		speech:   &fakeSpeech{path: "narration.mp3"},
		chart:    &fakeChart{path: "chart.png"},
		video:    &fakeVideo{path: "report.mp4"},
		uploader: &fakeUploader{result: &models.UploadResult{VideoID: "abc123"}},
	}
	f.runner = NewRunner(config, f.market, f.composer, f.speech, f.chart, f.video, f.uploader, arbor.NewLogger())
	return f
}

func TestRunner_NoneExitsWithoutCollaborators(t *testing.T) {
	f := newFixture(t)

	err := f.runner.Run(context.Background(), models.ReportNone)

	require.NoError(t, err)
	assert.Zero(t, f.market.calls)
	assert.Zero(t, f.chart.calls)
	assert.Zero(t, f.uploader.calls)
}

func TestRunner_FullVideoRun(t *testing.T) {
	f := newFixture(t)

	err := f.runner.Run(context.Background(), models.ReportPostmarket)

	require.NoError(t, err)
	assert.Equal(t, 1, f.market.calls)
	assert.Equal(t, 1, f.speech.calls)
	assert.Equal(t, 1, f.chart.calls)
	assert.Equal(t, 1, f.video.composes)
	assert.Equal(t, 1, f.uploader.calls)
	assert.Equal(t, "narration.mp3", f.video.lastAudio)
	assert.Zero(t, f.video.silentCalls)

	assert.Contains(t, f.uploader.meta.Title, "NIFTY 50 Closes +0.54%")
	assert.Equal(t, "28", f.uploader.meta.CategoryID)
}

// An unconfigured speech provider is not a failure: the run substitutes
// silent placeholder audio and continues to upload.
func TestRunner_SilentAudioFallback(t *testing.T) {
	f := newFixture(t)
	f.speech.err = speech.ErrNotConfigured
	f.speech.path = ""

	err := f.runner.Run(context.Background(), models.ReportPremarket)

	require.NoError(t, err)
	assert.Equal(t, 1, f.video.silentCalls)
	assert.Equal(t, "silent.mp3", f.video.lastAudio)
	assert.Equal(t, 1, f.uploader.calls)
}

func TestRunner_ScriptModeStopsEarly(t *testing.T) {
	f := newFixture(t)
	f.config.Pipeline.Mode = "script"

	err := f.runner.Run(context.Background(), models.ReportWeekly)

	require.NoError(t, err)
	assert.Zero(t, f.speech.calls)
	assert.Zero(t, f.chart.calls)
	assert.Zero(t, f.video.composes)
	assert.Zero(t, f.uploader.calls)

	entries, readErr := os.ReadDir(f.config.Pipeline.OutputDir)
	require.NoError(t, readErr)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "weekly_"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".txt"))

	written, readErr := os.ReadFile(filepath.Join(f.config.Pipeline.OutputDir, entries[0].Name()))
	require.NoError(t, readErr)
	assert.Equal(t, "Markets were steady today.", string(written))
}

func TestRunner_UploadDisabledLeavesArtifact(t *testing.T) {
	f := newFixture(t)
	f.config.Upload.Enabled = false

	err := f.runner.Run(context.Background(), models.ReportPostmarket)

	require.NoError(t, err)
	assert.Equal(t, 1, f.video.composes)
	assert.Zero(t, f.uploader.calls)
}

// Rendering has no fallback artifact: chart and video errors terminate the
// run.
func TestRunner_ChartErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.chart.err = errors.New("empty series")
	f.chart.path = ""

	err := f.runner.Run(context.Background(), models.ReportPostmarket)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart rendering failed")
	assert.Zero(t, f.video.composes)
	assert.Zero(t, f.uploader.calls)
}

func TestRunner_VideoErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.video.err = errors.New("encoder exited 1")
	f.video.path = ""

	err := f.runner.Run(context.Background(), models.ReportPremarket)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "video rendering failed")
	assert.Zero(t, f.uploader.calls)
}

// An upload failure ends the run cleanly: the video was already rendered
// and stays on disk, so the run reports success and the failure is only
// logged.
func TestRunner_UploadFailureDoesNotAbortRun(t *testing.T) {
	f := newFixture(t)
	f.uploader.err = errors.New("quota exceeded")
	f.uploader.result = nil

	err := f.runner.Run(context.Background(), models.ReportPostmarket)

	require.NoError(t, err)
	assert.Equal(t, 1, f.video.composes)
	assert.Equal(t, 1, f.uploader.calls)
}

// Invalid market data never stops the run: the composer receives the
// invalid quote and the pipeline continues with placeholder wording.
func TestRunner_InvalidQuoteContinues(t *testing.T) {
	f := newFixture(t)
	f.market.quote = models.IndexQuote{Symbol: "^NSEI", Error: "no historical data returned"}

	err := f.runner.Run(context.Background(), models.ReportPostmarket)

	require.NoError(t, err)
	assert.Equal(t, 1, f.uploader.calls)
	assert.Contains(t, f.uploader.meta.Title, "Postmarket Report")
}
