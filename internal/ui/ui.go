// Package ui defines the ports through which stores talk back to whatever is
// rendering them: transient notices and navigation.
package ui

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/session"
)

// Routes the stores navigate to.
const (
	RouteLogin    = "/login"
	RouteCart     = "/cart"
	RouteCheckout = "/checkout"
	RouteOrders   = "/orders"
)

// GenericFailure is shown when the server supplied no message.
const GenericFailure = "Something went wrong, please try again"

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient user-visible message.
type Notice struct {
	Level   Level
	Message string
}

// Notifier shows notices.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Navigator moves the user between screens.
type Navigator interface {
	Navigate(ctx context.Context, route string)
	// RedirectToLogin sends the user to the login screen, remembering where
	// to continue afterwards. An empty returnTo remembers nothing.
	RedirectToLogin(ctx context.Context, returnTo string)
}

// SessionClearer is the part of the session store the reporter needs.
type SessionClearer interface {
	Clear(ctx context.Context) error
}

// Message returns the server-provided message carried by err, or fallback.
func Message(err error, fallback string) string {
	var m interface{ UserMessage() string }
	if errors.As(err, &m) {
		if msg := m.UserMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}

// Reporter applies the error policy shared by every store: authentication
// failures clear the session and redirect to login, and every failure is
// surfaced once as a notice. Nothing is retried.
type Reporter struct {
	notifier  Notifier
	navigator Navigator
	sessions  SessionClearer
}

// NewReporter creates a Reporter.
func NewReporter(n Notifier, nav Navigator, sessions SessionClearer) *Reporter {
	return &Reporter{notifier: n, navigator: nav, sessions: sessions}
}

// Notify forwards a notice.
func (r *Reporter) Notify(ctx context.Context, level Level, msg string) {
	r.notifier.Notify(ctx, Notice{Level: level, Message: msg})
}

// Navigate forwards a navigation request.
func (r *Reporter) Navigate(ctx context.Context, route string) {
	r.navigator.Navigate(ctx, route)
}

// RedirectToLogin forwards a login redirect.
func (r *Reporter) RedirectToLogin(ctx context.Context, returnTo string) {
	r.navigator.RedirectToLogin(ctx, returnTo)
}

// Fail reports err and returns it unchanged so callers can `return r.Fail(...)`.
func (r *Reporter) Fail(ctx context.Context, err error, fallback, returnTo string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, session.ErrUnauthorized) {
		if cerr := r.sessions.Clear(ctx); cerr != nil {
			zctx.From(ctx).Warn("Clear session", zap.Error(cerr))
		}
		r.notifier.Notify(ctx, Notice{Level: LevelError, Message: Message(err, "Your session has expired, please log in again")})
		r.navigator.RedirectToLogin(ctx, returnTo)
		return err
	}
	if fallback == "" {
		fallback = GenericFailure
	}
	r.notifier.Notify(ctx, Notice{Level: LevelError, Message: Message(err, fallback)})
	return err
}
