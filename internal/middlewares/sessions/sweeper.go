package sessions

import (
	"context"
	"log/slog"
	"time"

	"github.com/UmidYul/21-IDUM/internal/metrics"
)

// Sweeper removes expired sessions in the background so the collection
// does not grow unbounded between explicit accesses. It is owned by the
// process lifecycle: started once at initialization and stopped through
// context cancellation.
type Sweeper struct {
	store    *Store
	interval time.Duration
}

func NewSweeper(store *Store, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval}
}

// Run sweeps once immediately, then on every tick until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.store.SweepExpired(ctx)
	if err != nil {
		slog.Error("Session sweep failed", "error", err)
		return
	}
	if removed > 0 {
		metrics.ActiveSessionsSwept.Add(float64(removed))
		slog.Info("Swept expired sessions", "removed", removed)
	}
}
