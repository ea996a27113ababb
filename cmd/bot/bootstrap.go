package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/auditlog"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/capital"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/cooldown"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/engine"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/engine/engineobs"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/gateway"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/gateway/gatewayobs"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/interfaces"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/logger"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/providers"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/store"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/trace"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

type appConfig = store.Config

// application bundles the wired components the cycle loop needs.
type application struct {
	engine     interfaces.Engine
	gateway    interfaces.ExecutionGateway
	signals    interfaces.SignalProvider
	indicators interfaces.IndicatorProvider
	states     *capital.StateStore
	journal    *auditlog.Journal
}

// initializeSystem initializes environment, logger, and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and validates the configuration. Validation failures are
// fatal here, before any cycle runs.
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("BOT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// buildApplication wires stores, engine, gateway, and providers.
func buildApplication(ctx context.Context, cfg *store.Config) (*application, error) {
	table, err := cfg.BuildTable()
	if err != nil {
		return nil, fmt.Errorf("build threshold table: %w", err)
	}

	cooldownStore, err := cooldown.OpenFileStore(cfg.Cooldown.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open cooldown store: %w", err)
	}
	cooldowns := cooldown.NewManager(cooldownStore, time.Duration(cfg.Cooldown.WindowMinutes)*time.Minute)

	states := capital.NewStateStore(cfg.Capital.StatePath)
	if err := seedCapitalState(ctx, cfg, states); err != nil {
		return nil, err
	}

	journal := auditlog.Open(auditlog.Options{
		Path:          cfg.Audit.Path,
		MaxSizeMB:     cfg.Audit.MaxSizeMB,
		RetentionDays: cfg.Audit.RetentionDays,
	})

	eng := engineobs.Wrap(engine.New(cfg, table, cooldowns, states, journal))

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - executions are simulated")
	}
	gw := gatewayobs.Wrap(gateway.NewPaperGateway())

	// Production deployments wire real strategy services here; the static
	// signal provider keeps the loop runnable without them. The indicator
	// provider starts with no price history, so every asset classifies as
	// degraded until a market data feed seeds it.
	logger.Warn(ctx, "No external providers configured - using static signals and empty price history")
	signalProvider := providers.NewStaticSignalProvider(nil)
	indicatorProvider := providers.NewHistoryIndicatorProvider(0)

	return &application{
		engine:     eng,
		gateway:    gw,
		signals:    signalProvider,
		indicators: indicatorProvider,
		states:     states,
		journal:    journal,
	}, nil
}

// seedCapitalState creates the initial durable snapshot on first run.
func seedCapitalState(ctx context.Context, cfg *store.Config, states *capital.StateStore) error {
	_, ok, err := states.Load()
	if err != nil {
		return fmt.Errorf("load capital state: %w", err)
	}
	if ok {
		return nil
	}
	initial := types.CapitalState{
		SchemaVersion:    types.CapitalStateSchemaVersion,
		TotalCapital:     cfg.Capital.Total,
		AvailableCapital: cfg.Capital.Total,
		Exposure:         map[string]float64{},
	}
	if err := states.Save(initial); err != nil {
		return fmt.Errorf("seed capital state: %w", err)
	}
	logger.Info(ctx, "Seeded capital state", "total", cfg.Capital.Total, "path", cfg.Capital.StatePath)
	return nil
}
