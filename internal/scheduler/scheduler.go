package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Shirsha07/nifty-200-dashboard/internal/dashboard"
	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
	"github.com/Shirsha07/nifty-200-dashboard/internal/notifier"
	"github.com/Shirsha07/nifty-200-dashboard/internal/recorder"
)

// Runner executes one dashboard pass.
type Runner interface {
	Run(ctx context.Context, req dashboard.Request) (*model.Dashboard, error)
}

// Sender delivers a formatted digest.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler refreshes the dashboard on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Runner
	Notifier Sender // nil disables digests
	Recorder recorder.Recorder
	Request  dashboard.Request
	Ctx      context.Context

	mu     sync.RWMutex
	latest *model.Dashboard
}

// NewScheduler creates a new Scheduler. Cron expressions carry a seconds field.
func NewScheduler(ctx context.Context, runner Runner, rec recorder.Recorder, sender Sender, req dashboard.Request) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Runner:   runner,
		Notifier: sender,
		Recorder: rec,
		Request:  req,
		Ctx:      ctx,
	}
}

// Register adds the refresh task. An empty expression leaves the schedule empty.
func (s *Scheduler) Register(refreshCron string) error {
	if refreshCron == "" {
		zap.S().Info("no refresh schedule configured")
		return nil
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	zap.S().Infof("dashboard refresh scheduled: %s", refreshCron)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	zap.S().Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	zap.S().Info("scheduler stopped")
}

// RefreshNow runs the refresh task immediately.
func (s *Scheduler) RefreshNow() {
	s.refreshTask()
}

// Latest returns the dashboard of the most recent successful refresh, or nil.
func (s *Scheduler) Latest() *model.Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Scheduler) refreshTask() {
	zap.S().Info("running scheduled refresh")
	d, err := s.Runner.Run(s.Ctx, s.Request)
	if err != nil {
		zap.S().Errorf("scheduled refresh: %v", err)
		s.trySend(fmt.Sprintf("❌ Dashboard refresh failed: %v", err))
		return
	}

	s.mu.Lock()
	s.latest = d
	s.mu.Unlock()

	if err := s.Recorder.RecordPass(d, recorder.TriggerScheduled); err != nil {
		zap.S().Errorf("record pass: %v", err)
	}
	s.trySend(notifier.FormatDashboard(d))
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		zap.S().Errorf("send notification: %v", err)
	}
}
