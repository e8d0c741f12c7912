// Package cron runs the periodic housekeeping jobs of the chat service.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"
)

const runTimeout = time.Minute

// Store is the subset of the change repository the janitor prunes.
type Store interface {
	PurgeExpiredMutes(ctx context.Context, now time.Time) (int64, error)
	PurgeChangesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Result struct {
	Mutes   int64
	Changes int64
}

// Janitor deletes expired mutes and outbox rows older than the retention.
// Expired mutes are already inert; this only keeps the tables small.
type Janitor struct {
	store     Store
	interval  time.Duration
	retention time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	scheduler *gocron.Scheduler
}

func NewJanitor(store Store, interval, retention time.Duration, clock clockwork.Clock, logger *slog.Logger) *Janitor {
	return &Janitor{
		store:     store,
		interval:  interval,
		retention: retention,
		clock:     clock,
		logger:    logger,
	}
}

// Start schedules a run every interval, the first one immediately.
func (j *Janitor) Start() error {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Every(j.interval).Do(j.run); err != nil {
		return err
	}
	s.StartAsync()
	j.scheduler = s
	j.logger.Info("[JANITOR] started", "interval", j.interval, "retention", j.retention)
	return nil
}

func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
		j.scheduler = nil
	}
}

func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	j.RunOnce(ctx)
}

// RunOnce runs both purges. A failing purge is logged and does not stop
// the other one.
func (j *Janitor) RunOnce(ctx context.Context) Result {
	var res Result
	now := j.clock.Now().UTC()

	mutes, err := j.store.PurgeExpiredMutes(ctx, now)
	if err != nil {
		j.logger.Error("[JANITOR] purge expired mutes failed", "error", err)
	} else {
		res.Mutes = mutes
	}

	changes, err := j.store.PurgeChangesBefore(ctx, now.Add(-j.retention))
	if err != nil {
		j.logger.Error("[JANITOR] purge change feed failed", "error", err)
	} else {
		res.Changes = changes
	}

	if res.Mutes > 0 || res.Changes > 0 {
		j.logger.Info("[JANITOR] purged", "mutes", res.Mutes, "changes", res.Changes)
	}
	return res
}
