package health

import (
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
)

// Pinger is anything that can verify its own connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck returns a CheckFunc that pings p.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		return p.Ping(ctx)
	}
}

// HTTPCheck returns a CheckFunc that reports unhealthy when a GET of url
// fails or answers with a 5xx status. Any other status means the server is
// up, including 401 and 404 for endpoints that need a session.
func HTTPCheck(client *http.Client, url string) CheckFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(err, "create request")
		}
		resp, err := client.Do(req)
		if err != nil {
			return errors.Wrap(err, "do request")
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= http.StatusInternalServerError {
			return errors.Errorf("%s returned %d", url, resp.StatusCode)
		}
		return nil
	}
}
