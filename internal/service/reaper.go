package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartSessionReaper expires idle sessions every interval until ctx is done.
func StartSessionReaper(
	ctx context.Context,
	svc *AuthService,
	interval time.Duration,
	ttl time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := svc.ExpireIdle(ttl); removed > 0 {
					log.Info("expired idle sessions",
						zap.Int("removed", removed),
						zap.Int("active", svc.Active()),
					)
				}
			}
		}
	}()
}
