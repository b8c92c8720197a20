package server

import (
	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/fasthttp/router"
	"github.com/lifelockgo/lifelock/pkg/lifelock"
	"github.com/valyala/fasthttp"
)

// MetricsController exposes both the default VictoriaMetrics registry
// (HTTP request counters/histograms, recorded by
// pkg/prometheus/metrics/middleware) and the lifelock arm/disarm series
// under a single /metrics endpoint.
type MetricsController struct {
	lifelock *lifelock.Metrics
}

func NewMetricsController(m *lifelock.Metrics) *MetricsController {
	return &MetricsController{lifelock: m}
}

func (c *MetricsController) AddRoute(r *router.Router) {
	r.GET("/metrics", c.handle)
}

func (c *MetricsController) handle(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain; version=0.0.4")
	vmetrics.WritePrometheus(ctx, true)
	if c.lifelock != nil {
		c.lifelock.WritePrometheus(ctx)
	}
}
