package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gymetra/internal/metrics"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// PendingCleanupJob is the name of the stale PENDING membership sweep.
const PendingCleanupJob = "pending-membership-cleanup"

// PendingPurger removes PENDING subscriptions older than maxAge.
type PendingPurger interface {
	PurgeStalePending(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Config controls the cleanup schedule.
type Config struct {
	CleanupInterval time.Duration
	PendingMaxAge   time.Duration
	RunTimeout      time.Duration
}

// JobScheduler runs the background jobs in-process
type JobScheduler struct {
	scheduler gocron.Scheduler
	purger    PendingPurger
	metrics   *metrics.JobMetrics
	logger    zerolog.Logger
	config    Config

	ctx    context.Context
	cancel context.CancelFunc

	jobs map[string]gocron.Job
	mu   sync.RWMutex
}

// NewJobScheduler creates a scheduler with all jobs registered. Nothing runs
// until Start.
func NewJobScheduler(purger PendingPurger, jobMetrics *metrics.JobMetrics, config Config, logger zerolog.Logger) (*JobScheduler, error) {
	if config.CleanupInterval <= 0 {
		return nil, fmt.Errorf("cleanup interval must be positive, got %s", config.CleanupInterval)
	}
	if config.PendingMaxAge <= 0 {
		return nil, fmt.Errorf("pending max age must be positive, got %s", config.PendingMaxAge)
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = config.CleanupInterval
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		purger:    purger,
		metrics:   jobMetrics,
		logger:    logger.With().Str("component", "scheduler").Logger(),
		config:    config,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info().Int("jobs", len(js.JobNames())).Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop cancels running tasks and waits for them to return.
func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.config.CleanupInterval),
		gocron.NewTask(js.runPendingCleanup),
		gocron.WithName(PendingCleanupJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register %s: %w", PendingCleanupJob, err)
	}

	js.mu.Lock()
	js.jobs[PendingCleanupJob] = job
	js.mu.Unlock()

	js.logger.Info().
		Str("job", PendingCleanupJob).
		Dur("interval", js.config.CleanupInterval).
		Dur("max_age", js.config.PendingMaxAge).
		Msg("registered background job")
	return nil
}

// runPendingCleanup is the scheduled task. Errors and panics stop here:
// they are logged and counted, and the next tick runs as usual.
func (js *JobScheduler) runPendingCleanup() {
	start := time.Now()
	defer func() {
		js.metrics.ObserveDuration(PendingCleanupJob, time.Since(start))
		if r := recover(); r != nil {
			js.metrics.IncFailure(PendingCleanupJob)
			js.logger.Error().Str("job", PendingCleanupJob).Interface("panic", r).Msg("background job panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(js.ctx, js.config.RunTimeout)
	defer cancel()

	purged, err := js.purger.PurgeStalePending(ctx, js.config.PendingMaxAge)
	if err != nil {
		js.metrics.IncFailure(PendingCleanupJob)
		js.logger.Error().Err(err).Str("job", PendingCleanupJob).Msg("failed to purge stale pending memberships")
		return
	}

	js.metrics.IncSuccess(PendingCleanupJob)
	js.metrics.AddPurged(PendingCleanupJob, purged)
	if purged > 0 {
		js.logger.Info().Str("job", PendingCleanupJob).Int64("purged", purged).Msg("purged stale pending memberships")
	}
}
