package middleware

import (
	"github.com/valyala/fasthttp"
)

var applicationJsonBytes = []byte("application/json")

// ApplicationJsonMiddleware defaults a response's Content-Type to
// application/json. Widget bodies are stored and returned opaque (see
// internal/lifelockcache.Entry), so a handler that doesn't set its own
// content type — the metrics endpoint being the exception — gets this
// default instead of fasthttp's plain-text fallback. The default is set
// before the handler runs, so a handler's own content type replaces it.
type ApplicationJsonMiddleware struct{}

func NewApplicationJsonMiddleware() ApplicationJsonMiddleware {
	return ApplicationJsonMiddleware{}
}

func (ApplicationJsonMiddleware) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.SetContentTypeBytes(applicationJsonBytes)
		next(ctx)
	}
}
