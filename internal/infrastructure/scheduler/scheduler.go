package scheduler

import (
	"context"
	"sync"
	"time"

	applending "github.com/spf-lend/backend/internal/application/lending"
	appnotification "github.com/spf-lend/backend/internal/application/notification"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// DailyJobs is what the scheduler drives each day, in order: the accrual
// sweep, then the borrower reminders.
type DailyJobs interface {
	RunDaily(ctx context.Context, now time.Time) (applending.AccrualReport, error)
}

// ReminderJobs runs the reminder sweep
type ReminderJobs interface {
	Run(ctx context.Context, now time.Time) (applending.ReminderReport, error)
}

// DispatchJobs delivers pending penalty notices
type DispatchJobs interface {
	Run(ctx context.Context) (appnotification.DispatchReport, error)
}

// Scheduler drives the background jobs: one combined accrual + reminder
// run per day at the configured regional hour, and a dispatch sweep every
// interval so undelivered penalty notices are retried until they land.
type Scheduler struct {
	cfg      config.SchedulerConfig
	accrual  DailyJobs
	reminder ReminderJobs
	dispatch DispatchJobs
	logger   *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// New creates a scheduler
func New(cfg config.SchedulerConfig, accrual DailyJobs, reminder ReminderJobs, dispatch DispatchJobs, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		accrual:  accrual,
		reminder: reminder,
		dispatch: dispatch,
		logger:   logger,
	}
}

// Start launches the background loops. Returns immediately; jobs run on
// their own goroutines until Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if s.cfg.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runDaily(ctx, time.Now())
		}()
	}

	s.wg.Add(2)
	go s.dailyLoop(ctx)
	go s.dispatchLoop(ctx)

	s.logger.Info("Scheduler started",
		zap.Int("daily_run_hour", s.cfg.DailyRunHour),
		zap.Duration("dispatch_interval", s.cfg.DispatchInterval),
		zap.Bool("run_on_start", s.cfg.RunOnStart))
	return nil
}

// Stop shuts the loops down and waits for in-flight runs, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// dailyLoop checks every minute whether the daily run is due. The
// once-per-date guard makes a restart at the trigger hour harmless; the
// jobs themselves are idempotent anyway.
func (s *Scheduler) dailyLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			local := now.In(lending.IST)
			if local.Hour() != s.cfg.DailyRunHour {
				continue
			}
			date := local.Format("2006-01-02")
			s.mu.Lock()
			alreadyRan := s.lastRunDate == date
			if !alreadyRan {
				s.lastRunDate = date
			}
			s.mu.Unlock()
			if alreadyRan {
				continue
			}
			s.runDaily(ctx, now)
		}
	}
}

// runDaily executes one accrual sweep followed by the reminder sweep
func (s *Scheduler) runDaily(ctx context.Context, now time.Time) {
	runCtx := ctx
	if s.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.JobTimeout)
		defer cancel()
	}

	accrualReport, err := s.accrual.RunDaily(runCtx, now)
	if err != nil {
		s.logger.Error("Daily accrual run failed", zap.Error(err))
	} else {
		s.logger.Info("Daily accrual run done",
			zap.Bool("skipped", accrualReport.Skipped),
			zap.Int64("penalties_applied", accrualReport.PenaltiesApplied),
			zap.Int("errors", accrualReport.Errors))
	}

	reminderReport, err := s.reminder.Run(runCtx, now)
	if err != nil {
		s.logger.Error("Reminder run failed", zap.Error(err))
		return
	}
	s.logger.Info("Reminder run done",
		zap.Int("reminders_sent", reminderReport.RemindersSent),
		zap.Int("errors", reminderReport.Errors))
}

// dispatchLoop retries pending penalty notices every interval
func (s *Scheduler) dispatchLoop(ctx context.Context) {
	defer s.wg.Done()

	interval := s.cfg.DispatchInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := s.dispatch.Run(ctx)
			if err != nil {
				s.logger.Error("Notice dispatch run failed", zap.Error(err))
				continue
			}
			if report.Pending > 0 {
				s.logger.Info("Notice dispatch run done",
					zap.Int("delivered", report.Delivered),
					zap.Int("failed", report.Failed))
			}
		}
	}
}
