package middleware

import "github.com/valyala/fasthttp"

// HttpMiddleware wraps a fasthttp.RequestHandler with another handler that
// runs before and/or after it.
type HttpMiddleware interface {
	Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler
}
