package server

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fasthttp/router"
	"github.com/lifelockgo/lifelock/pkg/config"
	"github.com/lifelockgo/lifelock/pkg/http/server/middleware"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

// HTTP is the demo widget cache's HTTP front end: a fasthttp.Server routed
// through fasthttp/router, wrapped in the same middleware-chain idiom the
// rest of the pack's HTTP layers use.
type HTTP struct {
	ctx    context.Context
	cfg    config.Config
	server *fasthttp.Server
}

func New(
	ctx context.Context,
	cfg config.Config,
	controllers []Controller,
	middlewares []middleware.HttpMiddleware,
) *HTTP {
	h := &HTTP{ctx: ctx, cfg: cfg}
	h.initServer(h.buildRouter(controllers), middlewares)
	return h
}

func (h *HTTP) ListenAndServe() {
	wg := &sync.WaitGroup{}
	defer wg.Wait()

	wg.Add(1)
	go h.serve(wg)

	wg.Add(1)
	go h.shutdown(wg)
}

func (h *HTTP) serve(wg *sync.WaitGroup) {
	defer wg.Done()

	api := h.cfg.Api()
	port := api.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	log.Info().Msgf("[server] %s was started on %s", api.Name, port)
	defer log.Info().Msgf("[server] %s was stopped on %s", api.Name, port)

	if err := h.server.ListenAndServe(port); err != nil {
		log.Error().Err(err).Msgf("[server] %s failed to listen and serve port %s", api.Name, port)
	}
}

func (h *HTTP) shutdown(wg *sync.WaitGroup) {
	defer wg.Done()

	<-h.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.server.ShutdownWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Msgf("[server] %s shutdown failed: %s", h.cfg.Api().Name, err.Error())
	}
}

func (h *HTTP) buildRouter(controllers []Controller) *router.Router {
	r := router.New()
	for _, c := range controllers {
		c.AddRoute(r)
	}
	return r
}

func (h *HTTP) wrapMiddlewares(handler fasthttp.RequestHandler, middlewares []middleware.HttpMiddleware) fasthttp.RequestHandler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i].Middleware(handler)
	}
	return handler
}

func (h *HTTP) initServer(r *router.Router, middlewares []middleware.HttpMiddleware) {
	h.server = &fasthttp.Server{
		Handler:                       h.wrapMiddlewares(r.Handler, middlewares),
		ReduceMemoryUsage:             true,
		DisablePreParseMultipartForm:  true,
		DisableHeaderNamesNormalizing: true,
		CloseOnShutdown:               true,
		Concurrency:                   256 * 1024,
		ReadBufferSize:                4 * 1024,
		WriteBufferSize:               4 * 1024,
		ReadTimeout:                   5 * time.Second,
		WriteTimeout:                  5 * time.Second,
		IdleTimeout:                   60 * time.Second,
		TCPKeepalive:                  true,
		TCPKeepalivePeriod:            30 * time.Second,
		NoDefaultServerHeader:         true,
		MaxRequestBodySize:            10 << 20,
	}
}
