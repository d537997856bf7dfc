// Package retention drops archived request logs once they age past the configured window.
package retention

import (
	"context"
	"fmt"
	"time"

	"loanapproval/pkg/logger"

	"github.com/robfig/cron/v3"
)

// LogPruner removes whole hour buckets older than a cutoff.
type LogPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) int
}

// Recorder observes pruned log counts.
type Recorder interface {
	LogsRemoved(n int)
}

type nopRecorder struct{}

func (nopRecorder) LogsRemoved(int) {}

type Pruner struct {
	store    LogPruner
	maxAge   time.Duration
	schedule string
	cron     *cron.Cron
	logger   logger.Logger
	recorder Recorder
	now      func() time.Time
}

// NewPruner schedules pruning of logs older than maxAge. schedule is a standard
// five-field cron expression or a descriptor such as "@hourly".
func NewPruner(store LogPruner, maxAge time.Duration, schedule string, log logger.Logger, rec Recorder) (*Pruner, error) {
	if maxAge <= 0 {
		return nil, fmt.Errorf("retention window must be positive, got %s", maxAge)
	}
	if rec == nil {
		rec = nopRecorder{}
	}

	p := &Pruner{
		store:    store,
		maxAge:   maxAge,
		schedule: schedule,
		cron:     cron.New(),
		logger:   log,
		recorder: rec,
		now:      time.Now,
	}
	if _, err := p.cron.AddFunc(schedule, func() { p.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	return p, nil
}

func (p *Pruner) Start() {
	p.cron.Start()
	p.logger.Info("Log retention started", map[string]interface{}{
		"max_age":  p.maxAge.String(),
		"schedule": p.schedule,
	})
}

// Stop halts the schedule and waits for a running prune to finish.
func (p *Pruner) Stop() {
	<-p.cron.Stop().Done()
	p.logger.Info("Log retention stopped", nil)
}

// Run prunes once and returns the number of logs removed.
func (p *Pruner) Run(ctx context.Context) int {
	cutoff := p.now().Add(-p.maxAge)
	removed := p.store.PruneBefore(ctx, cutoff)

	p.recorder.LogsRemoved(removed)
	if removed > 0 {
		p.logger.Info("Pruned request logs", map[string]interface{}{
			"removed": removed,
			"cutoff":  cutoff.Format(time.RFC3339),
		})
	}
	return removed
}
