package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/logger"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/trace"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := initializeSystem(); err != nil {
		os.Exit(1)
	}
	defer trace.Shutdown(context.Background())

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	app, err := buildApplication(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Bootstrap failed", err)
		os.Exit(1)
	}
	defer app.journal.Close()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	logger.Info(ctx, "Bot started", "mode", cfg.Mode, "assets", len(cfg.Assets), "poll_seconds", cfg.PollSeconds)
	for {
		select {
		case <-tick.C:
			runOneCycle(ctx, cfg, app)
		case <-sigc:
			logger.Info(ctx, "Shutting down")
			return
		case <-ctx.Done():
			return
		}
	}
}

// runOneCycle gathers inputs with bounded timeouts, runs the decision cycle,
// and feeds execution outcomes back. Upstream failures degrade to HOLD with
// a logged degraded-state event; they never abort the loop.
func runOneCycle(ctx context.Context, cfg *appConfig, app *application) {
	now := time.Now().UTC()
	timeout := time.Duration(cfg.ProviderTimeoutSeconds) * time.Second

	ot := logger.StartOperation(ctx, "cycle", "assets", len(cfg.Assets))
	defer ot.End()

	pctx, cancel := context.WithTimeout(ctx, timeout)
	signals, err := app.signals.Signals(pctx, cfg.Assets, now)
	cancel()
	if err != nil {
		logger.Warn(ctx, "Signal provider degraded - treating all assets as HOLD", "error", err)
		signals = map[string][]types.TradingSignal{}
	}

	pctx, cancel = context.WithTimeout(ctx, timeout)
	indicators, err := app.indicators.Snapshots(pctx, cfg.Assets)
	cancel()
	if err != nil {
		logger.Warn(ctx, "Indicator provider degraded - regime falls back to RANGING", "error", err)
		indicators = map[string]types.IndicatorSnapshot{}
	}

	state, ok, err := app.states.Load()
	if err != nil || !ok {
		logger.ErrorWithErr(ctx, "Capital state unavailable - skipping cycle", err)
		return
	}

	result, err := app.engine.RunCycle(ctx, types.CycleInput{
		Now:        now,
		Signals:    signals,
		Indicators: indicators,
		Capital:    state,
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Cycle failed", err)
		return
	}

	for _, alloc := range result.Allocations {
		outcome, err := app.gateway.Execute(ctx, alloc)
		if err != nil {
			logger.ErrorWithErr(ctx, "Execution failed - allocation discarded", err, "asset", alloc.AssetID)
			continue
		}
		if err := app.engine.RecordExecutionResult(ctx, alloc, outcome, time.Now().UTC()); err != nil {
			logger.ErrorWithErr(ctx, "Failed to record execution result", err, "asset", alloc.AssetID)
		}
	}
}
