package httpclient

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Recovery returns a middleware that turns a panic in the wrapped transport
// into an error, logging it with a stack trace.
func Recovery() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (resp *http.Response, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					zctx.From(r.Context()).Error("Panic recovered",
						zap.Any("panic", rec),
						zap.Stack("stack"),
					)
					resp, err = nil, errors.Errorf("round trip %s %s: panic: %v", r.Method, r.URL.Path, rec)
				}
			}()
			return next.RoundTrip(r)
		})
	}
}
