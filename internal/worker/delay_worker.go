package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/thedreamteamconsultancy/workstatus/internal/lease"
	"github.com/thedreamteamconsultancy/workstatus/internal/lifecycle"
	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	"github.com/thedreamteamconsultancy/workstatus/internal/telemetry"
)

const (
	DefaultInterval = 60 * time.Second
	DefaultCooldown = 5 * time.Second
)

// TaskSource is the cached task set swept on every tick.
type TaskSource interface {
	Tasks() []*task.Task
}

// Delayer re-checks one task against the store and delays it if it is still
// overdue. done reports whether a write happened.
type Delayer interface {
	DelayOverdue(ctx context.Context, id uuid.UUID) (done bool, err error)
}

type pruner interface {
	Prune() int
}

type DelayWorker struct {
	source   TaskSource
	delayer  Delayer
	lease    lease.Lease
	interval time.Duration
	cooldown time.Duration
	now      func() time.Time
}

type Option func(*DelayWorker)

func WithInterval(d time.Duration) Option {
	return func(w *DelayWorker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithCooldown(d time.Duration) Option {
	return func(w *DelayWorker) {
		if d > 0 {
			w.cooldown = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *DelayWorker) {
		if now != nil {
			w.now = now
		}
	}
}

func NewDelayWorker(source TaskSource, delayer Delayer, l lease.Lease, opts ...Option) *DelayWorker {
	w := &DelayWorker{
		source:   source,
		delayer:  delayer,
		lease:    l,
		interval: DefaultInterval,
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start sweeps on every tick until ctx is cancelled.
func (w *DelayWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: deadline scanner started",
		zap.Duration("interval", w.interval),
		zap.Duration("cooldown", w.cooldown))

	for {
		select {
		case <-ticker.C:
			w.Sweep(ctx)
		case <-ctx.Done():
			logger.Info("Worker: deadline scanner stopping")
			return
		}
	}
}

// Sweep delays every overdue task in the cached view that is not already
// leased, and returns how many were delayed. Failures are logged and left
// for the next sweep.
func (w *DelayWorker) Sweep(ctx context.Context) int {
	ctx, span := telemetry.Tracer().Start(ctx, "scanner.sweep")
	defer span.End()

	start := time.Now()
	now := w.now()
	tasks := w.source.Tasks()

	delayed, skipped, failed := 0, 0, 0
	for _, t := range tasks {
		if ctx.Err() != nil {
			break
		}
		if !lifecycle.IsOverdue(t, now) {
			continue
		}

		ok, err := w.lease.Acquire(ctx, t.UUID)
		if err != nil {
			failed++
			telemetry.ScannerFailuresTotal.WithLabelValues("lease").Inc()
			logger.Warn("Worker: lease unavailable", zap.String("task_id", t.UUID.String()), zap.Error(err))
			continue
		}
		if !ok {
			skipped++
			continue
		}

		done, err := w.delay(ctx, t.UUID)
		switch {
		case err != nil:
			failed++
		case done:
			delayed++
		}
	}

	if p, ok := w.lease.(pruner); ok {
		p.Prune()
	}

	duration := time.Since(start)
	telemetry.ScannerSweepsTotal.Inc()
	telemetry.ScannerDelayedTotal.Add(float64(delayed))
	telemetry.ScannerSweepDurationSeconds.Observe(duration.Seconds())

	span.SetAttributes(
		attribute.Int("tasks.checked", len(tasks)),
		attribute.Int("tasks.delayed", delayed),
		attribute.Int("tasks.failed", failed),
	)
	if failed > 0 {
		span.SetStatus(codes.Error, "some delays failed")
	}

	logger.Info("Worker: sweep finished",
		zap.Duration("took", duration),
		zap.Int("checked", len(tasks)),
		zap.Int("delayed", delayed),
		zap.Int("leased", skipped),
		zap.Int("failed", failed))
	return delayed
}

// delay runs one write under the lease. On success the lease is kept for
// the cooldown so a lagging view cannot trigger a second write; on failure
// it is dropped so the next sweep retries.
func (w *DelayWorker) delay(ctx context.Context, id uuid.UUID) (bool, error) {
	done, err := w.delayer.DelayOverdue(ctx, id)
	if err != nil {
		telemetry.ScannerFailuresTotal.WithLabelValues("write").Inc()
		logger.Warn("Worker: failed to delay task", zap.String("task_id", id.String()), zap.Error(err))
		if rerr := w.lease.Release(ctx, id, 0); rerr != nil {
			logger.Warn("Worker: failed to drop lease", zap.String("task_id", id.String()), zap.Error(rerr))
		}
		return false, err
	}

	if rerr := w.lease.Release(ctx, id, w.cooldown); rerr != nil {
		logger.Warn("Worker: failed to extend lease", zap.String("task_id", id.String()), zap.Error(rerr))
	}
	if done {
		logger.Info("Worker: task delayed", zap.String("task_id", id.String()))
	}
	return done, nil
}
