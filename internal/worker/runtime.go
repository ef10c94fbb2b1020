// Package worker implements the claim loop, command executor,
// heartbeat, lock refresher, and outcome resolution that together
// form the worker runtime (spec.md §4.6-4.7).
package worker

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"queuectl/internal/model"
	"queuectl/internal/registry"
	"queuectl/internal/store"
)

// refreshInterval is how often the lock refresher extends the lease
// on the job currently being processed.
const refreshInterval = 10 * time.Second

// shutdownWait/shutdownPoll bound the graceful-shutdown wait for an
// in-progress job.
const (
	shutdownWait = 30 * time.Second
	shutdownPoll = 1 * time.Second
)

// Worker is the runtime for a single worker process: its identity,
// claim loop, and the single in-flight job it may be processing.
type Worker struct {
	ID           string
	pid          int
	store        *store.Store
	registry     *registry.Registry
	log          *zap.Logger
	pollInterval time.Duration
	singleRun    bool

	stopRequested atomic.Bool
	busy          atomic.Bool
}

// New builds a Worker with a freshly generated worker_<8-char-random>
// identity.
func New(s *store.Store, log *zap.Logger, pollInterval time.Duration, singleRun bool) *Worker {
	id := fmt.Sprintf("worker_%s", strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return &Worker{
		ID:           id,
		pid:          os.Getpid(),
		store:        s,
		registry:     registry.New(s),
		log:          log,
		pollInterval: pollInterval,
		singleRun:    singleRun,
	}
}

// RequestStop sets the stop flag and blocks until the current job (if
// any) finishes or shutdownWait elapses, polling every shutdownPoll.
// It never cancels a running subprocess; the job remains under its
// (expiring) lease if the wait times out.
func (w *Worker) RequestStop() {
	w.stopRequested.Store(true)
	deadline := time.Now().Add(shutdownWait)
	for time.Now().Before(deadline) {
		if !w.busy.Load() {
			return
		}
		time.Sleep(shutdownPoll)
	}
}

// Run is the main loop: heartbeat, claim, process or idle-sleep, until
// stopped. In single-run mode it returns after the first processed
// job.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("worker starting", zap.String("worker_id", w.ID))

	for {
		if w.stopRequested.Load() {
			w.log.Info("worker stopping", zap.String("worker_id", w.ID))
			return nil
		}
		select {
		case <-ctx.Done():
			w.log.Info("worker context canceled", zap.String("worker_id", w.ID))
			return nil
		default:
		}

		if err := w.registry.Heartbeat(w.ID, w.pid); err != nil {
			w.log.Warn("heartbeat failed", zap.Error(err))
		}

		job, err := w.store.Claim(w.ID)
		if err != nil {
			w.log.Error("claim failed", zap.Error(err))
			sleep(ctx, time.Second)
			continue
		}
		if job == nil {
			sleep(ctx, w.pollInterval)
			continue
		}

		w.busy.Store(true)
		w.processJob(ctx, *job)
		w.busy.Store(false)

		if w.singleRun {
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// processJob runs one claimed job to completion: lock refresher
// concurrent with the bounded subprocess, then atomic outcome
// resolution.
func (w *Worker) processJob(ctx context.Context, job model.Job) {
	log := w.log.With(zap.String("worker_id", w.ID), zap.String("job_id", job.ID))
	log.Info("processing job", zap.String("command", job.Command), zap.Int("attempt", job.Attempts))

	refreshCtx, stopRefresher := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(refreshCtx)
	g.Go(func() error {
		w.runRefresher(gctx, job.ID)
		return nil
	})

	result, execErr := Run(ctx, job.Command)

	// The refresher's only contract is to run independently of the
	// subprocess wait and stop deterministically before resolution.
	stopRefresher()
	_ = g.Wait()

	w.resolveOutcome(job, result, execErr, log)
}

// runRefresher extends the lease on jobID every refreshInterval until
// ctx is canceled. Errors are logged and otherwise swallowed: a
// missed refresh self-heals on the next tick, or the lease simply
// expires and another worker reclaims the job, which is the
// documented at-least-once semantics.
func (w *Worker) runRefresher(ctx context.Context, jobID string) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.store.RefreshLock(jobID, w.ID); err != nil {
				w.log.Warn("lock refresh failed", zap.String("job_id", jobID), zap.Error(err))
			}
		}
	}
}

// resolveOutcome implements spec.md §4.7: success, retry, or
// dead-letter, based on the job's attempts (already incremented by
// Claim) against its max_retries and the operator-tunable
// backoff_base.
func (w *Worker) resolveOutcome(job model.Job, result ExecResult, execErr error, log *zap.Logger) {
	if execErr == nil && result.ExitCode == 0 {
		if err := w.store.Complete(job.ID); err != nil {
			log.Error("failed to record completion", zap.Error(err))
		} else {
			log.Info("job completed")
		}
		return
	}

	lastError := fmt.Sprintf("exit=%d: %s", result.ExitCode, model.Truncate(result.Stderr))

	if job.Attempts < job.MaxRetries {
		backoffBase, err := w.store.GetConfigFloat("backoff_base")
		if err != nil || backoffBase == 0 {
			backoffBase = 2
		}
		if err := w.store.Fail(job.ID, job.Attempts, backoffBase, lastError); err != nil {
			log.Error("failed to schedule retry", zap.Error(err))
		} else {
			log.Warn("job failed, retry scheduled", zap.Int("attempts", job.Attempts))
		}
		return
	}

	if err := w.store.DeadLetter(job, lastError); err != nil {
		log.Error("failed to dead-letter job", zap.Error(err))
	} else {
		log.Warn("job exhausted retries, moved to dlq")
	}
}
