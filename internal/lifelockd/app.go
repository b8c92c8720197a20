// Package lifelockd wires the widget cache, its HTTP surface, and the
// supporting ambient services (liveness probing, forced GC, graceful
// shutdown) into one running application.
package lifelockd

import (
	"context"
	"fmt"

	"github.com/lifelockgo/lifelock/internal/lifelockcache"
	"github.com/lifelockgo/lifelock/internal/lifelockd/server"
	"github.com/lifelockgo/lifelock/pkg/config"
	"github.com/lifelockgo/lifelock/pkg/http/server/middleware"
	"github.com/lifelockgo/lifelock/pkg/k8s/probe/liveness"
	"github.com/lifelockgo/lifelock/pkg/lifelock"
	httpmetrics "github.com/lifelockgo/lifelock/pkg/prometheus/metrics"
	metricsmiddleware "github.com/lifelockgo/lifelock/pkg/prometheus/metrics/middleware"
	"github.com/lifelockgo/lifelock/pkg/rate"
	"github.com/lifelockgo/lifelock/pkg/shutdown"
	"github.com/rs/zerolog/log"
)

// App is the fully wired widget cache service.
type App struct {
	cfg     *config.AtomicCache
	cache   *lifelockcache.Cache
	probe   *liveness.Probe
	http    *server.HTTP
	metrics *lifelock.Metrics
}

// New builds an App from a loaded configuration document.
func New(ctx context.Context, cfg *config.Cache) (*App, error) {
	atomicCfg := config.NewAtomicCache(cfg)

	lm := lifelock.NewMetrics("lifelockd")

	cache, err := lifelockcache.New(cfg, lm)
	if err != nil {
		return nil, fmt.Errorf("build cache: %w", err)
	}

	probe := liveness.NewProbe(cfg.Cache.K8S.Probe.Interval)
	probe.Watch(alwaysAlive{})

	limiter := rate.NewLimiter(cfg.Cache.Api.RateLimit.RPS, cfg.Cache.Api.RateLimit.Burst)

	meter, err := httpmetrics.New()
	if err != nil {
		return nil, fmt.Errorf("build http meter: %w", err)
	}

	controllers := []server.Controller{
		server.NewWidgetController(cache, limiter, cfg.Cache.Refresh.TTL),
		server.NewMetricsController(lm),
		server.NewHealthzController(probe),
	}

	middlewares := []middleware.HttpMiddleware{
		middleware.NewApplicationJsonMiddleware(),
		middleware.NewFingerprintMiddleware(atomicCfg),
		middleware.NewCacheStatsMiddleware(cache),
		metricsmiddleware.NewPrometheusMetrics(ctx, meter),
	}

	httpSrv := server.New(ctx, atomicCfg, controllers, middlewares)

	return &App{
		cfg:     atomicCfg,
		cache:   cache,
		probe:   probe,
		http:    httpSrv,
		metrics: lm,
	}, nil
}

// Start runs the HTTP server until ctx is cancelled, then calls g.Done.
func (a *App) Start(g *shutdown.Graceful) {
	defer g.Done()
	log.Info().Msg("[app] starting widget cache service")
	a.http.ListenAndServe()
}

// Cache exposes the underlying widget cache, mainly for tests.
func (a *App) Cache() *lifelockcache.Cache { return a.cache }

// alwaysAlive is the liveness target until a real dependency health check
// (e.g. the admission policy) is wired in; kept separate so Watch's target
// can be swapped without touching App's shape.
type alwaysAlive struct{}

func (alwaysAlive) IsAlive(context.Context) bool { return true }
