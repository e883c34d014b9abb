package server

import (
	"context"
	"log/slog"
	"time"
)

// Maintenance periodically prunes old daily data and evicts idle games.
type Maintenance struct {
	Logger        *slog.Logger
	Profiles      *Profiles
	Games         *Games
	RetentionDays int
	IdleTimeout   time.Duration
}

// Run performs a pass immediately and then every interval until ctx is
// cancelled.
func (m *Maintenance) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single maintenance pass. Failures are logged.
func (m *Maintenance) RunOnce(ctx context.Context) {
	profiles, removed, err := m.Profiles.PruneAll(ctx, m.RetentionDays)
	if err != nil {
		m.Logger.Error("pruning daily data", "error", err)
	}
	evicted := 0
	if m.IdleTimeout > 0 {
		evicted = m.Games.Sweep(m.IdleTimeout)
	}
	m.Logger.Info("maintenance pass",
		"profiles", profiles,
		"removed", removed,
		"evicted_games", evicted,
		"active_games", m.Games.Len(),
	)
}
