package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ousmanedev/receiptwatch/internal/config"
	"github.com/ousmanedev/receiptwatch/internal/service/alerts"
)

// Scheduler runs the daily alert scan on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	alertSvc *alerts.Service
	cfg      config.AlertsConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. The schedule runs in the
// configured timezone, falling back to the process-local zone when the name
// does not resolve.
func NewScheduler(cfg config.AlertsConfig, alertSvc *alerts.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts []cron.Option
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("unknown timezone, scheduling in local time", zap.String("timezone", cfg.Timezone))
	}

	return &Scheduler{
		cron:     cron.New(opts...),
		alertSvc: alertSvc,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the alert scan job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runAlertScan)
	if err != nil {
		s.logger.Error("failed to schedule alert scan", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runAlertScan() {
	s.logger.Info("running scheduled alert scan")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.alertSvc.Notify(ctx); err != nil {
		s.logger.Error("scheduled alert scan failed", zap.Error(err))
	}
}
