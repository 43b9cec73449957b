package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/storage"
)

// KeyReturnTo is where Router remembers the path to resume after login.
const KeyReturnTo = "nav.return_to"

var (
	_ Notifier  = (*Console)(nil)
	_ Navigator = (*Router)(nil)
)

// Console prints notices to a terminal.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Notify(ctx context.Context, n Notice) {
	zctx.From(ctx).Debug("Notice", zap.String("level", string(n.Level)), zap.String("message", n.Message))

	prefix := "-"
	switch n.Level {
	case LevelSuccess:
		prefix = "ok"
	case LevelError:
		prefix = "error"
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, "%s: %s\n", prefix, n.Message)
}

// Router is a Navigator for a command line: there is no screen to switch, so
// it records the current route and persists the login return path.
type Router struct {
	kv  storage.Store
	out io.Writer

	mu      sync.Mutex
	current string
}

// NewRouter returns a Router persisting into kv and printing hints to out.
func NewRouter(kv storage.Store, out io.Writer) *Router {
	return &Router{kv: kv, out: out}
}

func (r *Router) Navigate(ctx context.Context, route string) {
	r.mu.Lock()
	r.current = route
	r.mu.Unlock()
	zctx.From(ctx).Debug("Navigate", zap.String("route", route))
}

func (r *Router) RedirectToLogin(ctx context.Context, returnTo string) {
	if returnTo != "" {
		if err := r.kv.Set(ctx, KeyReturnTo, []byte(returnTo)); err != nil {
			zctx.From(ctx).Warn("Persist return path", zap.Error(err))
		}
	}
	r.Navigate(ctx, RouteLogin)
	_, _ = fmt.Fprintln(r.out, "Please sign in with `storefront login`.")
}

// Current returns the last route navigated to.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// TakeReturnPath returns and forgets the remembered return path.
func (r *Router) TakeReturnPath(ctx context.Context) (string, error) {
	raw, err := r.kv.Get(ctx, KeyReturnTo)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "load return path")
	}
	if err := r.kv.Delete(ctx, KeyReturnTo); err != nil {
		return "", errors.Wrap(err, "forget return path")
	}
	return string(raw), nil
}
