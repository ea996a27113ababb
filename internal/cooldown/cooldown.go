package cooldown

import (
	"context"
	"time"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/logger"
)

// Store persists last-trade timestamps across cycles and restarts.
type Store interface {
	// LastTrade returns the zero time when the asset has never traded.
	LastTrade(assetID string) (time.Time, error)
	// SetLastTrade durably records a confirmed trade.
	SetLastTrade(assetID string, at time.Time) error
}

// Manager enforces the per-asset cooldown window with a two-phase protocol:
// Check is read-only at decision time, Commit mutates only after the
// execution gateway confirms a fill. Marking at signal time would punish
// trades that were generated but never executed.
type Manager struct {
	store  Store
	window time.Duration
}

func NewManager(store Store, window time.Duration) *Manager {
	return &Manager{store: store, window: window}
}

// Check reports whether the asset may trade at now. Never mutates state. An
// unreachable store fails closed: the asset is treated as not allowed and a
// degraded-state event is logged.
func (m *Manager) Check(ctx context.Context, assetID string, now time.Time) bool {
	if m.window <= 0 {
		return true
	}
	last, err := m.store.LastTrade(assetID)
	if err != nil {
		logger.Warn(ctx, "Cooldown store unreachable - failing closed",
			"event", "COOLDOWN_STORE_DEGRADED",
			"asset", assetID,
			"error", err,
		)
		return false
	}
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= m.window
}

// Commit records a confirmed fill. Called only on FILLED outcomes.
func (m *Manager) Commit(ctx context.Context, assetID string, now time.Time) error {
	if err := m.store.SetLastTrade(assetID, now); err != nil {
		logger.ErrorWithErr(ctx, "Failed to commit cooldown record", err, "asset", assetID)
		return err
	}
	logger.Debug(ctx, "Cooldown committed", "asset", assetID, "at", now)
	return nil
}

// Window exposes the configured cooldown window.
func (m *Manager) Window() time.Duration {
	return m.window
}
