package middleware

import (
	"strconv"

	"github.com/valyala/fasthttp"
)

// CacheCounters is the read surface CacheStatsMiddleware needs from the
// widget cache: entry count and approximate bytes held, both already
// tracked per-shard for the admission policy.
type CacheCounters interface {
	Len() int64
	Weight() int64
}

var (
	cacheEntriesHeader = []byte("X-Cache-Entries")
	cacheBytesHeader   = []byte("X-Cache-Bytes")
)

// CacheStatsMiddleware stamps every response with the cache's current
// entry count and approximate byte weight. Where a reverse-proxy cache
// would report which origin server answered the request, this cache has
// no origin leg to report — so instead it reports its own sharded-map
// size, which is the thing an operator debugging eviction pressure or
// admission-policy behavior actually wants to see on each response.
type CacheStatsMiddleware struct {
	cache CacheCounters
}

func NewCacheStatsMiddleware(cache CacheCounters) CacheStatsMiddleware {
	return CacheStatsMiddleware{cache: cache}
}

func (m CacheStatsMiddleware) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		next(ctx)
		ctx.Response.Header.SetBytesKV(cacheEntriesHeader, strconv.AppendInt(nil, m.cache.Len(), 10))
		ctx.Response.Header.SetBytesKV(cacheBytesHeader, strconv.AppendInt(nil, m.cache.Weight(), 10))
	}
}
