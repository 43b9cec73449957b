// Package api is the HTTP client for the remote storefront API. It
// implements the backend interfaces of the domain packages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/storefront/pkg/httpclient"
)

const instrumentationName = "github.com/xenking/storefront/internal/api"

// TokenHeader is the header carrying the session token.
const TokenHeader = "token"

// TokenSource returns the current session token, or "" for guests.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

type options struct {
	timeout        time.Duration
	transport      http.RoundTripper
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	middlewares    []httpclient.Middleware
	uploadsBaseURL string
}

// Option configures a Client.
type Option func(*options)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTransport sets the underlying transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// WithMiddleware appends transport middlewares. They run inside the
// token, request id and logging middlewares.
func WithMiddleware(mws ...httpclient.Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, mws...) }
}

// WithUploadsBaseURL sets the base URL prepended to relative image paths in
// responses. When empty, paths are returned as the server sends them.
func WithUploadsBaseURL(base string) Option {
	return func(o *options) { o.uploadsBaseURL = strings.TrimRight(base, "/") }
}

// Client calls the storefront API.
type Client struct {
	base       *url.URL
	http       *http.Client
	tracer     trace.Tracer
	duration   metric.Float64Histogram
	failures   metric.Int64Counter
	uploadsURL string
}

// NewClient creates a Client for the API rooted at baseURL. Requests carry
// the token returned by tokens; a nil source sends no token.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	o := options{
		timeout:        30 * time.Second,
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter(instrumentationName)
	duration, err := meter.Float64Histogram("storefront.api.duration",
		metric.WithDescription("Duration of storefront API operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create duration histogram")
	}
	failures, err := meter.Int64Counter("storefront.api.errors",
		metric.WithDescription("Failed storefront API operations"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create error counter")
	}

	mws := []httpclient.Middleware{
		httpclient.Recovery(),
		httpclient.RequestID(),
		httpclient.Header(TokenHeader, func(*http.Request) string {
			if tokens == nil {
				return ""
			}
			return tokens.Token()
		}),
		httpclient.LogRequests(),
	}
	rt := httpclient.Wrap(o.transport, append(mws, o.middlewares...)...)
	rt = otelhttp.NewTransport(rt,
		otelhttp.WithTracerProvider(o.tracerProvider),
		otelhttp.WithMeterProvider(o.meterProvider),
	)

	return &Client{
		base:       base,
		http:       &http.Client{Transport: rt, Timeout: o.timeout},
		tracer:     o.tracerProvider.Tracer(instrumentationName),
		duration:   duration,
		failures:   failures,
		uploadsURL: o.uploadsBaseURL,
	}, nil
}

// call describes one API operation.
type call struct {
	op       string
	method   string
	path     string
	query    url.Values
	json     any
	form     *form
	notFound error
}

// do performs c and decodes a successful response body into out.
func (cl *Client) do(ctx context.Context, c call, out any) (rerr error) {
	ctx, span := cl.tracer.Start(ctx, c.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", c.method),
			attribute.String("storefront.path", c.path),
		),
	)
	start := time.Now()
	defer func() {
		attrs := metric.WithAttributes(attribute.String("operation", c.op))
		cl.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		if rerr != nil {
			cl.failures.Add(ctx, 1, attrs)
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	req, err := cl.newRequest(ctx, c)
	if err != nil {
		return errors.Wrap(err, c.op)
	}

	resp, err := cl.http.Do(req)
	if err != nil {
		return errors.Wrap(err, c.op)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Wrap(decodeError(resp, c.notFound), c.op)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "%s: decode response", c.op)
	}
	return nil
}

func (cl *Client) newRequest(ctx context.Context, c call) (*http.Request, error) {
	u := *cl.base
	u.Path = cl.base.Path + c.path
	if len(c.query) > 0 {
		u.RawQuery = c.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case c.form != nil:
		buf, ct, err := c.form.encode()
		if err != nil {
			return nil, errors.Wrap(err, "encode form")
		}
		body, contentType = buf, ct
	case c.json != nil:
		buf, err := json.Marshal(c.json)
		if err != nil {
			return nil, errors.Wrap(err, "encode body")
		}
		body, contentType = bytes.NewReader(buf), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, c.method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// resolve prefixes a relative upload path with the uploads base URL.
func (cl *Client) resolve(path string) string {
	if path == "" || cl.uploadsURL == "" {
		return path
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return cl.uploadsURL + "/" + strings.TrimLeft(path, "/")
}

func (cl *Client) resolveAll(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = cl.resolve(p)
	}
	return out
}
