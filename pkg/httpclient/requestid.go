package httpclient

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request identifier.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the context key for the request ID value.
type requestIDKey struct{}

// WithRequestID returns a context whose outgoing requests carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request ID from the context.
// It returns an empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestID returns a middleware that ensures every outgoing request has a
// unique identifier. An explicit X-Request-ID header wins, then a valid id
// from the request context, otherwise a new UUID v4 is generated. The id is
// stored in the request context for the middlewares that follow.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			id := r.Header.Get(RequestIDHeader)
			if !isValidRequestID(id) {
				id = RequestIDFromContext(r.Context())
			}
			if !isValidRequestID(id) {
				id = uuid.New().String()
			}

			r = r.Clone(WithRequestID(r.Context(), id))
			r.Header.Set(RequestIDHeader, id)
			return next.RoundTrip(r)
		})
	}
}

// isValidRequestID checks that id is non-empty, at most 128 bytes, and
// contains only printable ASCII (0x20-0x7E).
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}
