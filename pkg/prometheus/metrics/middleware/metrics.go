package middleware

import (
	"context"
	"strconv"

	"github.com/lifelockgo/lifelock/pkg/prometheus/metrics"
	gotilsstrconv "github.com/savsgio/gotils/strconv"
	"github.com/valyala/fasthttp"
)

type PrometheusMetrics struct {
	ctx     context.Context
	metrics metrics.Meter
}

func NewPrometheusMetrics(ctx context.Context, meter metrics.Meter) *PrometheusMetrics {
	return &PrometheusMetrics{ctx: ctx, metrics: meter}
}

func (m *PrometheusMetrics) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := gotilsstrconv.B2S(ctx.Path())
		method := gotilsstrconv.B2S(ctx.Method())

		timer := m.metrics.NewResponseTimeTimer(path, method)

		m.metrics.IncTotal(path, method, "")

		next(ctx)

		status := strconv.Itoa(ctx.Response.StatusCode())
		m.metrics.IncStatus(path, method, status)
		m.metrics.IncTotal(path, method, status)

		m.metrics.FlushResponseTimeTimer(timer)
	}
}
