package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/Domenick1991/airfare/internal/domain"
)

type HoldExpirer interface {
	ExpireLapsedHolds(ctx context.Context) ([]domain.Booking, error)
}

// RunExpirySweep marks lapsed holds expired every interval until ctx is done.
// A failed sweep is logged and retried on the next tick.
func RunExpirySweep(ctx context.Context, expirer HoldExpirer, interval time.Duration, log *slog.Logger) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			expired, err := expirer.ExpireLapsedHolds(ctx)
			if err != nil {
				log.Warn("expire holds", "error", err)
				continue
			}
			if len(expired) > 0 {
				log.Info("expired holds", "count", len(expired))
			}
		}
	}
}
