package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Cron format: second minute hour day month weekday
const (
	loginCleanupSchedule = "0 */10 * * * *"
	cronJobTimeout       = time.Minute
)

// CronService runs the scheduled maintenance jobs
type CronService struct {
	cron     *cron.Cron
	throttle *LoginThrottleService
	logger   *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(throttle *LoginThrottleService, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:     cron.New(cron.WithSeconds()),
		throttle: throttle,
		logger:   logger,
	}
}

// Start schedules every job and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(loginCleanupSchedule, s.pruneLoginFailuresJob); err != nil {
		return fmt.Errorf("failed to schedule login failure cleanup: %w", err)
	}
	s.logger.WithField("schedule", loginCleanupSchedule).Info("Scheduled: prune login failures")

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// JobCount reports how many jobs are scheduled
func (s *CronService) JobCount() int {
	return len(s.cron.Entries())
}

func (s *CronService) pruneLoginFailuresJob() {
	ctx, cancel := context.WithTimeout(context.Background(), cronJobTimeout)
	defer cancel()

	start := time.Now()
	removed, err := s.throttle.Cleanup(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("[CRON] Login failure cleanup failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"removed":  removed,
		"duration": time.Since(start).String(),
	}).Debug("[CRON] Pruned login failures")
}
