package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/common"
	"github.com/ternarybob/tickercast/internal/models"
)

// RunFunc executes the report pipeline for the given kind.
type RunFunc func(ctx context.Context, kind models.ReportKind) error

// Service runs the report pipeline on a cron cadence. Each tick evaluates
// the schedule policy against the configured market timezone; ticks that
// plan to ReportNone are skipped without touching any collaborator.
type Service struct {
	config  *common.ScheduleConfig
	loc     *time.Location
	run     RunFunc
	cron    *cron.Cron
	logger  arbor.ILogger
	mu      sync.Mutex // Prevents overlapping pipeline runs
	running bool
}

// NewService creates a scheduler service driving run on the configured cron
// expression.
func NewService(config *common.ScheduleConfig, loc *time.Location, run RunFunc, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		loc:    loc,
		run:    run,
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
}

// Start begins the cron loop.
func (s *Service) Start() error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	expr := s.config.Cron
	if expr == "" {
		expr = "0 * * * *" // Default: top of every hour
	}

	if _, err := s.cron.AddFunc(expr, s.tick); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", expr).
		Str("policy", s.config.Policy).
		Str("timezone", s.loc.String()).
		Msg("Scheduler started")

	return nil
}

// Stop halts the cron loop, waiting for an in-flight run to finish.
func (s *Service) Stop() {
	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info().Msg("Scheduler stopped")
}

// IsRunning returns true while the cron loop is active.
func (s *Service) IsRunning() bool {
	return s.running
}

// tick evaluates the schedule and runs the pipeline when a report is due.
func (s *Service) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("PANIC RECOVERED in scheduled run")
		}
	}()

	now := time.Now().In(s.loc)
	kind := Plan(now, Policy(s.config.Policy))

	if kind == models.ReportNone {
		s.logger.Debug().
			Str("weekday", now.Weekday().String()).
			Int("hour", now.Hour()).
			Msg("No report scheduled for this tick")
		return
	}

	if !s.mu.TryLock() {
		s.logger.Warn().Str("kind", kind.String()).Msg("Previous run still in progress, skipping tick")
		return
	}
	defer s.mu.Unlock()

	start := time.Now()
	s.logger.Info().Str("kind", kind.String()).Msg("Scheduled run started")

	if err := s.run(context.Background(), kind); err != nil {
		s.logger.Error().
			Str("kind", kind.String()).
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Scheduled run failed")
		return
	}

	s.logger.Info().
		Str("kind", kind.String()).
		Dur("duration", time.Since(start)).
		Msg("Scheduled run completed")
}
