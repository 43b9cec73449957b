// Package httpclient provides composable http.RoundTripper middleware for
// outgoing requests.
package httpclient

import "net/http"

// Middleware wraps a RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Wrap applies middlewares to rt. The first middleware is the outermost, so
// it sees the request first and the response last. A nil rt means
// http.DefaultTransport.
func Wrap(rt http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		rt = middlewares[i](rt)
	}
	return rt
}

// Header returns a middleware that sets the header name to the value
// returned by value for every request. Empty values leave the request
// untouched.
func Header(name string, value func(r *http.Request) string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			v := value(r)
			if v == "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set(name, v)
			return next.RoundTrip(r)
		})
	}
}
