// Package liveness implements a polling liveness probe suitable for
// backing a Kubernetes /healthz endpoint.
package liveness

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/lifelockgo/lifelock/pkg/utils"
)

// Service is anything a Probe can poll for liveness.
type Service interface {
	IsAlive(ctx context.Context) bool
}

// Probe polls a Service on a fixed interval and exposes its last observed
// state without blocking the caller on the poll itself.
type Probe struct {
	interval time.Duration
	alive    atomic.Bool
	cancel   context.CancelFunc
}

// NewProbe constructs a Probe that will poll at interval once Watch is
// called. Starts optimistic: IsAlive reports true until the first poll.
func NewProbe(interval time.Duration) *Probe {
	p := &Probe{interval: interval}
	p.alive.Store(true)
	return p
}

// Watch starts polling svc on a background goroutine. Calling Watch again
// replaces the previous target and restarts the poll loop.
func (p *Probe) Watch(svc Service) {
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	go func() {
		ticks := utils.NewTicker(ctx, p.interval)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				p.alive.Store(svc.IsAlive(ctx))
			}
		}
	}()
}

// IsAlive returns the most recently observed liveness state.
func (p *Probe) IsAlive() bool {
	return p.alive.Load()
}

// Stop ends the poll loop started by Watch.
func (p *Probe) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}
