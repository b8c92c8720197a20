// Package shutdown coordinates graceful process shutdown: cancel the root
// context, wait (with a timeout) for every registered worker to finish,
// then return.
package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// Graceful waits for SIGINT/SIGTERM or an externally-cancelled context,
// then gives every registered worker up to its timeout to call Done before
// returning.
type Graceful struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewGraceful wraps ctx/cancel. cancel is invoked when a termination signal
// arrives, so the rest of the application sees its root context cancelled
// the same way it would on an explicit shutdown.
func NewGraceful(ctx context.Context, cancel context.CancelFunc) *Graceful {
	return &Graceful{ctx: ctx, cancel: cancel, timeout: 30 * time.Second}
}

// SetGracefulTimeout overrides how long ListenCancelAndAwait waits for
// outstanding workers after the shutdown signal before giving up.
func (g *Graceful) SetGracefulTimeout(d time.Duration) {
	g.timeout = d
}

// Add registers n workers that must call Done before shutdown is
// considered complete.
func (g *Graceful) Add(n int) {
	g.wg.Add(n)
}

// Done marks one registered worker as finished.
func (g *Graceful) Done() {
	g.wg.Done()
}

// ListenCancelAndAwait blocks until SIGINT, SIGTERM, or the wrapped
// context is cancelled, then calls cancel (if it hasn't fired already) and
// waits up to the configured timeout for every registered worker to finish.
// Returns an error if the timeout elapses first.
func (g *Graceful) ListenCancelAndAwait() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info().Msgf("[shutdown] received signal %s, shutting down", sig)
		g.cancel()
	case <-g.ctx.Done():
		log.Info().Msg("[shutdown] context cancelled, shutting down")
	}

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(g.timeout):
		return fmt.Errorf("graceful shutdown timed out after %s waiting for workers", g.timeout)
	}
}
