package middleware

import (
	"github.com/lifelockgo/lifelock/pkg/rate"
	"github.com/valyala/fasthttp"
)

// RateLimitMiddleware throttles requests per remote IP using a
// golang.org/x/time/rate token bucket per client.
type RateLimitMiddleware struct {
	limiter *rate.Limiter
}

func NewRateLimitMiddleware(limiter *rate.Limiter) RateLimitMiddleware {
	return RateLimitMiddleware{limiter: limiter}
}

func (m RateLimitMiddleware) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if !m.limiter.Allow(ctx.RemoteIP().String()) {
			ctx.Error("rate limit exceeded", fasthttp.StatusTooManyRequests)
			return
		}
		next(ctx)
	}
}
