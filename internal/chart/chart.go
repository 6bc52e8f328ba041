package chart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/interfaces"
	"github.com/ternarybob/tickercast/internal/models"
)

// Dark theme palette matching the rendered clip background.
var (
	colorBackground = drawing.Color{R: 16, G: 18, B: 24, A: 255}
	colorUp         = drawing.Color{R: 38, G: 166, B: 91, A: 255}
	colorDown       = drawing.Color{R: 214, G: 69, B: 65, A: 255}
	colorText       = drawing.Color{R: 220, G: 221, B: 225, A: 255}
	colorGrid       = drawing.Color{R: 52, G: 56, B: 66, A: 255}
)

// Renderer draws the intraday price chart used as the clip background.
// A fetch failure or an empty series is an error: the pipeline has no
// substitute image and must stop.
type Renderer struct {
	market      interfaces.MarketDataService
	displayName string
	outputDir   string
	width       int
	height      int
	logger      arbor.ILogger
}

var _ interfaces.ChartService = (*Renderer)(nil)

// NewRenderer creates a chart renderer writing PNGs to outputDir.
func NewRenderer(market interfaces.MarketDataService, displayName, outputDir string, width, height int, logger arbor.ILogger) *Renderer {
	return &Renderer{
		market:      market,
		displayName: displayName,
		outputDir:   outputDir,
		width:       width,
		height:      height,
		logger:      logger,
	}
}

// Create fetches the recent intraday series for symbol and renders it to
// filename under the output directory, returning the written path.
func (r *Renderer) Create(ctx context.Context, symbol, filename string) (string, error) {
	bars, err := r.market.IntradaySeries(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("failed to fetch chart series: %w", err)
	}
	if len(bars) == 0 {
		return "", fmt.Errorf("no chart data available for %s", symbol)
	}

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(r.outputDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	graph := r.buildGraph(bars)
	if err := graph.Render(gochart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}

	r.logger.Info().Str("path", path).Int("bars", len(bars)).Msg("Chart rendered")
	return path, nil
}

func (r *Renderer) buildGraph(bars []models.Bar) gochart.Chart {
	xs := make([]time.Time, len(bars))
	ys := make([]float64, len(bars))
	for i, b := range bars {
		xs[i] = b.Time
		ys[i] = b.Close
	}

	first, last := ys[0], ys[len(ys)-1]
	change := 0.0
	if first != 0 {
		change = (last - first) / first * 100
	}

	line := colorUp
	if change < 0 {
		line = colorDown
	}
	fill := line.WithAlpha(40)

	return gochart.Chart{
		Title: fmt.Sprintf("%s  %.2f  (%+.2f%%)", r.displayName, last, change),
		TitleStyle: gochart.Style{
			FontColor: colorText,
			FontSize:  22,
		},
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			FillColor: colorBackground,
			Padding:   gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 30},
		},
		Canvas: gochart.Style{
			FillColor: colorBackground,
		},
		XAxis: gochart.XAxis{
			Style: gochart.Style{
				FontColor:   colorText,
				StrokeColor: colorGrid,
			},
			ValueFormatter: gochart.TimeHourValueFormatter,
		},
		YAxis: gochart.YAxis{
			Style: gochart.Style{
				FontColor:   colorText,
				StrokeColor: colorGrid,
			},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: line,
					StrokeWidth: 2.4,
					FillColor:   fill,
				},
			},
			// Dashed reference line at the last close.
			gochart.TimeSeries{
				XValues: []time.Time{xs[0], xs[len(xs)-1]},
				YValues: []float64{last, last},
				Style: gochart.Style{
					StrokeColor:     colorText,
					StrokeWidth:     1.0,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}
}
