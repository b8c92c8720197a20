// Package serverutils writes widget bodies onto the HTTP response,
// logging and normalizing whatever fasthttp itself returns on failure.
package serverutils

import (
	"errors"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

var ErrWriteResponse = errors.New("error occurred while writing data into *fasthttp.RequestCtx")

// Write sends a cached widget's body as the response. Called from
// WidgetController's GET handler after the entry's Strong observer has
// been minted, so b stays valid for the duration of the write.
func Write(b []byte, ctx *fasthttp.RequestCtx) (int, error) {
	n, err := ctx.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("error while writing data into *fasthttp.RequestCtx")
		return 0, ErrWriteResponse
	}
	return n, nil
}

func WriteString(s string, ctx *fasthttp.RequestCtx) (int, error) {
	n, err := ctx.WriteString(s)
	if err != nil {
		log.Error().Err(err).Msg("error while writing data into *fasthttp.RequestCtx")
		return 0, ErrWriteResponse
	}
	return n, nil
}
