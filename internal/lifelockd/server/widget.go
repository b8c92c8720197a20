package server

import (
	"time"

	"github.com/fasthttp/router"
	"github.com/lifelockgo/lifelock/internal/lifelockcache"
	"github.com/lifelockgo/lifelock/pkg/ctime"
	"github.com/lifelockgo/lifelock/pkg/http/server/middleware"
	serverutils "github.com/lifelockgo/lifelock/pkg/http/server/utils"
	"github.com/lifelockgo/lifelock/pkg/rate"
	"github.com/valyala/fasthttp"
)

// WidgetController exposes the cache over HTTP: GET fetches a cached
// widget body, PUT stores one. PUT is rate-limited per client; GET is not,
// matching SPEC_FULL's "rate limiting on the write path" wiring for
// golang.org/x/time/rate.
type WidgetController struct {
	cache   *lifelockcache.Cache
	limiter middleware.RateLimitMiddleware
	ttl     time.Duration
}

func NewWidgetController(cache *lifelockcache.Cache, limiter *rate.Limiter, ttl time.Duration) *WidgetController {
	return &WidgetController{
		cache:   cache,
		limiter: middleware.NewRateLimitMiddleware(limiter),
		ttl:     ttl,
	}
}

func (c *WidgetController) AddRoute(r *router.Router) {
	r.GET("/widgets/{key}", c.get)
	r.PUT("/widgets/{key}", c.limiter.Middleware(c.put))
}

func (c *WidgetController) get(ctx *fasthttp.RequestCtx) {
	key := ctx.UserValue("key").(string)

	strong, ok := c.cache.Get([]byte(key))
	if !ok {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}
	defer strong.Release()

	entry := strong.Get()
	if entry.Expired(ctime.Now()) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}

	for k, v := range entry.Headers {
		ctx.Response.Header.Set(k, v)
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	if _, err := serverutils.Write(entry.Body, ctx); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
}

func (c *WidgetController) put(ctx *fasthttp.RequestCtx) {
	key := ctx.UserValue("key").(string)
	body := append([]byte(nil), ctx.PostBody()...)

	entry := lifelockcache.Entry{
		Key:      []byte(key),
		Body:     body,
		StoredAt: ctime.Now(),
	}
	if c.ttl > 0 {
		entry.ExpiresAt = entry.StoredAt.Add(c.ttl)
	}

	c.cache.Set([]byte(key), entry)
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}
