package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Cyber-shmuck/Dutch/internal/storage"
)

// jobTimeout bounds a single scheduled run.
const jobTimeout = 10 * time.Minute

// Scheduler runs periodic source syncs and session cleanup.
type Scheduler struct {
	scheduler *gocron.Scheduler
	syncer    *Syncer
	db        *storage.DB
	interval  time.Duration
	logger    *slog.Logger
}

// NewScheduler creates a scheduler. An interval of zero disables the
// periodic sync; session cleanup always runs hourly.
func NewScheduler(syncer *Syncer, db *storage.DB, interval time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		syncer:    syncer,
		db:        db,
		interval:  interval,
		logger:    logger,
	}
}

// Start registers the jobs and begins running them in the background.
func (s *Scheduler) Start() error {
	if s.interval > 0 {
		if _, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.syncSources); err != nil {
			return fmt.Errorf("failed to schedule source sync: %w", err)
		}
	}
	if _, err := s.scheduler.Every(1).Hour().Do(s.cleanSessions); err != nil {
		return fmt.Errorf("failed to schedule session cleanup: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.logger.Info("Scheduler started", "sync_interval", s.interval)
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) syncSources() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.syncer.RunSync(ctx); err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			s.logger.Info("Scheduled sync skipped, another sync is running")
			return
		}
		s.logger.Error("Scheduled sync failed", "error", err)
	}
}

func (s *Scheduler) cleanSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.db.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		s.logger.Error("Session cleanup failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("Expired sessions removed", "count", n)
	}
}
