// Package autopilot advances the stored venture on a cron schedule and forwards each
// day's events to a notifier.
package autopilot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"ventures/internal/game"
	"ventures/internal/notify"
)

// Advancer is the slice of *game.Service the autopilot drives.
type Advancer interface {
	AdvanceDays(ctx context.Context, n int) (game.Result, error)
}

type Autopilot struct {
	svc      Advancer
	notifier notify.Notifier
	log      *slog.Logger

	cron     *cron.Cron
	done     chan struct{}
	doneOnce sync.Once
}

func New(svc Advancer, notifier notify.Notifier, logger *slog.Logger) *Autopilot {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}
	return &Autopilot{
		svc:      svc,
		notifier: notifier,
		log:      logger,
		done:     make(chan struct{}),
	}
}

// Tick advances one day. finished is true once the venture is bankrupt; a missing
// venture is skipped so the worker can run before anyone has founded one.
func (a *Autopilot) Tick(ctx context.Context) (finished bool, err error) {
	res, err := a.svc.AdvanceDays(ctx, 1)
	switch {
	case errors.Is(err, game.ErrNoVenture):
		a.log.Info("no venture to advance, skipping tick")
		return false, nil
	case errors.Is(err, game.ErrGameOver):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("advance: %w", err)
	}

	v := res.Venture
	a.log.Info("autopilot tick", "venture", v.CompanyName, "day", v.Day, "cash", v.Cash, "events", len(res.Events))
	d := game.Dashboard{Venture: v, Metrics: res.Metrics}
	if err := a.notifier.Notify(ctx, d, res.Events); err != nil {
		a.log.Warn("notify failed", "err", err, "day", v.Day)
	}
	return v.IsGameOver, nil
}

// Start registers the tick under schedule (six-field with seconds, or a descriptor such
// as "@every 1m") and starts the scheduler.
func (a *Autopilot) Start(ctx context.Context, schedule string) error {
	logger := cronLogger{a.log}
	a.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLogger(logger),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)
	if _, err := a.cron.AddFunc(schedule, func() { a.scheduledTick(ctx) }); err != nil {
		return fmt.Errorf("register autopilot %q: %w", schedule, err)
	}
	a.cron.Start()
	a.log.Info("autopilot started", "schedule", schedule)
	return nil
}

// Done is closed after the tick that finds the venture bankrupt.
func (a *Autopilot) Done() <-chan struct{} {
	return a.done
}

// Stop stops scheduling and waits for a running tick to finish.
func (a *Autopilot) Stop() {
	if a.cron == nil {
		return
	}
	<-a.cron.Stop().Done()
	a.log.Info("autopilot stopped")
}

func (a *Autopilot) scheduledTick(ctx context.Context) {
	finished, err := a.Tick(ctx)
	if err != nil {
		a.log.Error("autopilot tick failed", "err", err)
		return
	}
	if finished {
		a.doneOnce.Do(func() {
			a.log.Info("venture is bankrupt, autopilot finished")
			close(a.done)
		})
	}
}

type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append([]any{"err", err}, keysAndValues...)...)
}
