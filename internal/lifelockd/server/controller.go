// Package server wires the demo widget cache up to an HTTP surface: a
// fasthttp.Server routed with fasthttp/router, guarded by the same
// middleware chain idiom the teacher's HTTP layer uses.
package server

import "github.com/fasthttp/router"

// Controller registers its routes on r.
type Controller interface {
	AddRoute(r *router.Router)
}
