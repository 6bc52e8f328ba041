package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/chart"
	"github.com/ternarybob/tickercast/internal/common"
	"github.com/ternarybob/tickercast/internal/composer"
	"github.com/ternarybob/tickercast/internal/marketdata"
	"github.com/ternarybob/tickercast/internal/media"
	"github.com/ternarybob/tickercast/internal/models"
	"github.com/ternarybob/tickercast/internal/pipeline"
	"github.com/ternarybob/tickercast/internal/scheduler"
	"github.com/ternarybob/tickercast/internal/speech"
	"github.com/ternarybob/tickercast/internal/uploader"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	taskFlag     = flag.String("task", "", "Run a specific report now (premarket, postmarket, weekly)")
	onceFlag     = flag.Bool("once", false, "Evaluate the schedule once, run any due report, then exit")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	common.InstallCrashHandler("")
	defer common.RecoverWithCrashFile()

	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Tickercast version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Initialize logger
	// 3. Print banner
	// 4. Wire services and run

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("tickercast.toml"); err == nil {
			configFiles = append(configFiles, "tickercast.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.LoadVersionFromFile())

	logger.Info().
		Strs("config_files", configFiles).
		Str("symbol", config.Market.Symbol).
		Str("mode", config.Pipeline.Mode).
		Str("schedule_policy", config.Schedule.Policy).
		Msg("Configuration loaded")

	runner := buildRunner(config, logger)

	switch {
	case *taskFlag != "":
		kind, err := models.ParseReportKind(*taskFlag)
		if err != nil {
			logger.Fatal().Err(err).Msg("Invalid -task value")
			os.Exit(1)
		}
		runAndExit(runner, kind, logger)

	case *onceFlag || !config.Schedule.Daemon:
		now := time.Now().In(config.Location())
		kind := scheduler.Plan(now, scheduler.Policy(config.Schedule.Policy))
		runAndExit(runner, kind, logger)

	default:
		runDaemon(config, runner, logger)
	}
}

// buildRunner wires the pipeline stages from configuration.
func buildRunner(config *common.Config, logger arbor.ILogger) *pipeline.Runner {
	clientOpts := []marketdata.ClientOption{
		marketdata.WithLogger(logger),
		marketdata.WithRateLimit(config.Market.RateLimit),
	}
	if config.Market.BaseURL != "" {
		clientOpts = append(clientOpts, marketdata.WithBaseURL(config.Market.BaseURL))
	}
	client := marketdata.NewClient(clientOpts...)
	gateway := marketdata.NewGateway(client, config.Market.DisplayName, logger)

	provider, err := composer.NewProvider(context.Background(), config, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Text generation provider unavailable, fallback scripts will be used")
	}
	scripts := composer.New(provider, logger)

	synth := speech.NewSynthesizer(&config.Speech, config.Pipeline.OutputDir, logger)

	charts := chart.NewRenderer(
		gateway,
		config.Market.DisplayName,
		config.Pipeline.AssetsDir,
		config.Video.Width,
		config.Video.Height,
		logger,
	)
	videos := media.NewRenderer(&config.Video, config.Pipeline.OutputDir, logger)

	uploads := uploader.NewUploader(&config.Upload, logger)

	return pipeline.NewRunner(config, gateway, scripts, synth, charts, videos, uploads, logger)
}

// runAndExit executes a single pass and exits with a pipeline-appropriate
// status code. A pass that planned to ReportNone exits 0.
func runAndExit(runner *pipeline.Runner, kind models.ReportKind, logger arbor.ILogger) {
	ctx := context.Background()
	if err := runner.Run(ctx, kind); err != nil {
		logger.Fatal().Str("kind", kind.String()).Err(err).Msg("Report run failed")
		os.Exit(1)
	}
	os.Exit(0)
}

// runDaemon starts the cron scheduler and blocks until interrupted.
func runDaemon(config *common.Config, runner *pipeline.Runner, logger arbor.ILogger) {
	svc := scheduler.NewService(&config.Schedule, config.Location(), runner.Run, logger)
	if err := svc.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
		os.Exit(1)
	}

	logger.Info().Msg("Daemon running - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Interrupt signal received")
	svc.Stop()
	logger.Info().Msg("Daemon stopped")
}
