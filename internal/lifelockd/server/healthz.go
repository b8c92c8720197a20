package server

import (
	"github.com/fasthttp/router"
	"github.com/lifelockgo/lifelock/pkg/k8s/probe/liveness"
	"github.com/valyala/fasthttp"
)

// HealthzController backs a Kubernetes liveness check from a Probe's last
// observed state.
type HealthzController struct {
	probe *liveness.Probe
}

func NewHealthzController(probe *liveness.Probe) *HealthzController {
	return &HealthzController{probe: probe}
}

func (c *HealthzController) AddRoute(r *router.Router) {
	r.GET("/healthz", c.handle)
}

func (c *HealthzController) handle(ctx *fasthttp.RequestCtx) {
	if c.probe.IsAlive() {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	ctx.SetBodyString("unavailable")
}
