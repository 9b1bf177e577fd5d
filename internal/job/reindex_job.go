// Package job provides background jobs.
package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"course-search-service/internal/app/service"
	"course-search-service/pkg/locker"
)

// LockKey guards reindex runs across instances.
const LockKey = "reindex:lock"

// ErrReindexInProgress is returned by RunNow when another run holds the lock.
var ErrReindexInProgress = errors.New("reindex already in progress")

// Reindexer rebuilds the search index.
type Reindexer interface {
	Reindex(ctx context.Context) (*service.ReindexResult, error)
}

// ReindexConfig holds reindex job configuration.
type ReindexConfig struct {
	Interval  time.Duration // 0 disables periodic runs
	Timeout   time.Duration
	OnStartup bool
}

// ReindexJob runs the reindex routine at startup, periodically and on demand.
// Every run holds a distributed lock so only one instance rebuilds the index at a time.
type ReindexJob struct {
	reindexer Reindexer
	locker    locker.Locker
	cfg       ReindexConfig
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReindexJob creates a new ReindexJob.
func NewReindexJob(reindexer Reindexer, cfg ReindexConfig, l locker.Locker, logger *zap.Logger) *ReindexJob {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}

	return &ReindexJob{
		reindexer: reindexer,
		locker:    l,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start launches the background loop.
func (j *ReindexJob) Start() {
	j.ctx, j.cancel = context.WithCancel(context.Background())

	j.logger.Info("starting reindex job",
		zap.Duration("interval", j.cfg.Interval),
		zap.Bool("run_on_startup", j.cfg.OnStartup),
	)

	j.wg.Add(1)
	go j.run()
}

// Stop cancels any scheduled run and waits for the loop to exit.
func (j *ReindexJob) Stop() {
	if j.cancel == nil {
		return
	}
	j.logger.Info("stopping reindex job")
	j.cancel()
	j.wg.Wait()
	j.logger.Info("reindex job stopped")
}

func (j *ReindexJob) run() {
	defer j.wg.Done()

	if j.cfg.OnStartup {
		j.scheduled()
	}

	if j.cfg.Interval <= 0 {
		return
	}

	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.ctx.Done():
			return
		case <-ticker.C:
			j.scheduled()
		}
	}
}

func (j *ReindexJob) scheduled() {
	_, err := j.RunNow(j.ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrReindexInProgress):
		j.logger.Debug("another instance is reindexing, skipping execution")
	case errors.Is(err, context.Canceled):
		j.logger.Info("reindex cancelled")
	default:
		j.logger.Error("scheduled reindex failed", zap.Error(err))
	}
}

// RunNow runs one reindex under the lock and waits for it.
// The lock TTL is the run timeout; the lock is released when the run ends.
func (j *ReindexJob) RunNow(ctx context.Context) (*service.ReindexResult, error) {
	lease, err := j.locker.TryAcquire(ctx, LockKey, j.cfg.Timeout)
	if errors.Is(err, locker.ErrNotAcquired) {
		return nil, ErrReindexInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("acquiring reindex lock: %w", err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			j.logger.Error("failed to release reindex lock", zap.Error(err))
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	return j.reindexer.Reindex(runCtx)
}
