package utils

import (
	"context"
	"time"

	"github.com/lifelockgo/lifelock/pkg/ctime"
)

// NewTicker returns a channel that fires immediately, then every
// interval until ctx is done. The liveness probe (pkg/k8s/probe/liveness)
// uses this so Watch's first health read happens without waiting out a
// full interval.
func NewTicker(ctx context.Context, interval time.Duration) (ch <-chan time.Time) {
	ctx, cancel := context.WithCancel(ctx)

	tickCh := make(chan time.Time, 1)
	tickCh <- ctime.Now()

	go func() {
		ticker := time.NewTicker(interval)
		defer func() {
			ticker.Stop()
			close(tickCh)
			cancel()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				tickCh <- t
			}
		}
	}()

	return tickCh
}
