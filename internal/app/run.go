package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/flowgrid/internal/clock"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/inspector"
)

// Run drives the tick loop until the context is canceled or MaxTicks is
// reached. Each pass asks the clock for a delta, runs one tick, and
// publishes the report and a fresh state snapshot to the inspector.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if cfg.InspectorPort > 0 {
		addr := fmt.Sprintf(":%d", cfg.InspectorPort)
		go func() {
			if err := a.inspector.ListenAndServe(ctx, addr); err != nil {
				a.logger.Error("Inspector server failed.", "error", err)
			}
		}()
	}

	clk := clock.NewReal(cfg.TickRate)
	defer clk.Stop()

	a.logger.Info("🚀 Tick loop starting.", "tick_rate", cfg.TickRate, "kinds", a.catalog.Len())
	return a.loop(ctx, clk, cfg.MaxTicks)
}

// RunWithClock is Run's core with an injected clock and no inspector
// listener, for tests and offline evaluation.
func (a *App) RunWithClock(ctx context.Context, clk clock.Clock, maxTicks uint64) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	return a.loop(ctx, clk, maxTicks)
}

func (a *App) loop(ctx context.Context, clk clock.Clock, maxTicks uint64) error {
	for {
		dt, err := clk.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				a.logger.Info("🏁 Tick loop stopped.", "ticks", a.runtime.Seq())
				return nil
			}
			return err
		}

		report := a.runtime.Tick(ctx, dt)
		a.inspector.Publish(report, inspector.BuildSnapshot(a.runtime))

		if maxTicks > 0 && report.Seq >= maxTicks {
			a.logger.Info("🏁 Tick limit reached.", "ticks", report.Seq)
			return nil
		}
	}
}
