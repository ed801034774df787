// Package scheduler runs the background jobs of the serve command on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-lines/internal/metrics"
	"github.com/yourusername/value-lines/internal/service"
)

// Settler grades pending predictions
type Settler interface {
	SettlePending(ctx context.Context, limit int) (*service.SettlementReport, error)
}

// CacheStatser reports fetch cache counters
type CacheStatser interface {
	Stats() (hits, misses uint64, ratio float64)
	ItemCount() int
}

// Scheduler manages scheduled settlement and cache reporting jobs
type Scheduler struct {
	cron            *cron.Cron
	log             *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler running in UTC
func NewScheduler(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		log:             log.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      10 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleSettlement grades up to batchSize pending predictions on every tick
func (s *Scheduler) ScheduleSettlement(cronExpression string, settler Settler, batchSize int) error {
	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		start := time.Now()
		report, err := settler.SettlePending(ctx, batchSize)
		if err != nil {
			s.log.WithError(err).Error("Scheduled settlement failed")
			return
		}
		s.log.WithFields(logrus.Fields{
			"checked":     report.Checked,
			"settled":     report.Settled,
			"skipped":     report.Skipped,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Scheduled settlement completed")
	}

	if err := s.add(cronExpression, job); err != nil {
		return err
	}
	s.log.WithField("schedule", cronExpression).Info("Scheduled settlement job")
	return nil
}

// ScheduleCacheStats publishes the fetch cache hit ratio every interval
func (s *Scheduler) ScheduleCacheStats(interval time.Duration, cache CacheStatser) error {
	if interval < 5*time.Second {
		interval = 5 * time.Second
	}

	job := func() {
		hits, misses, ratio := cache.Stats()
		metrics.UpdateCacheHitRatio("all", ratio)
		s.log.WithFields(logrus.Fields{
			"hits":   hits,
			"misses": misses,
			"ratio":  ratio,
			"items":  cache.ItemCount(),
		}).Debug("Fetch cache stats")
	}

	return s.add(fmt.Sprintf("@every %s", interval), job)
}

func (s *Scheduler) add(schedule string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(schedule, job)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}
	s.jobIDs = append(s.jobIDs, entryID)
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop waits for running jobs to finish, up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	select {
	case <-s.cron.Stop().Done():
		s.log.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler jobs still running after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the earliest upcoming job run, or zero when stopped
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	var next time.Time
	for _, id := range s.jobIDs {
		entry := s.cron.Entry(id)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

// Jobs returns how many jobs are scheduled
func (s *Scheduler) Jobs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobIDs)
}
