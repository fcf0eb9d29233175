package app

import (
	"context"
	"time"

	"github.com/classwave/live/internal/core"
	"github.com/rs/zerolog/log"
)

// Reaper periodically evicts sessions that went non-live, emptied out,
// and stayed idle past the grace period, so the registry never grows
// without bound.
type Reaper struct {
	Registry *core.Registry
	Interval time.Duration
	Grace    time.Duration
}

func (r *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if removed := r.Registry.Sweep(now, r.Grace); len(removed) > 0 {
				log.Info().Str("module", "app.reaper").Int("count", len(removed)).Msg("reaped idle sessions")
			}
		}
	}
}
