package ui

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/storage"
)

type mockNotifier struct {
	notices []Notice
}

func (m *mockNotifier) Notify(_ context.Context, n Notice) { m.notices = append(m.notices, n) }

type mockNavigator struct {
	routes   []string
	returnTo []string
}

func (m *mockNavigator) Navigate(_ context.Context, route string) { m.routes = append(m.routes, route) }

func (m *mockNavigator) RedirectToLogin(_ context.Context, returnTo string) {
	m.returnTo = append(m.returnTo, returnTo)
}

type mockSessions struct {
	cleared int
}

func (m *mockSessions) Clear(context.Context) error {
	m.cleared++
	return nil
}

type serverError struct{ msg string }

func (e *serverError) Error() string       { return "server: " + e.msg }
func (e *serverError) UserMessage() string { return e.msg }

func TestMessage(t *testing.T) {
	wrapped := errors.Wrap(&serverError{msg: "Out of stock"}, "add item")
	assert.Equal(t, "Out of stock", Message(wrapped, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("dial tcp"), "fallback"))
	assert.Equal(t, "fallback", Message(&serverError{}, "fallback"))
}

func TestReporter_Fail(t *testing.T) {
	t.Run("server message", func(t *testing.T) {
		n, nav, s := &mockNotifier{}, &mockNavigator{}, &mockSessions{}
		r := NewReporter(n, nav, s)

		err := r.Fail(context.Background(), &serverError{msg: "Out of stock"}, "Could not add", RouteCart)
		require.Error(t, err)
		require.Len(t, n.notices, 1)
		assert.Equal(t, Notice{Level: LevelError, Message: "Out of stock"}, n.notices[0])
		assert.Zero(t, s.cleared)
		assert.Empty(t, nav.returnTo)
	})

	t.Run("generic fallback", func(t *testing.T) {
		n := &mockNotifier{}
		r := NewReporter(n, &mockNavigator{}, &mockSessions{})

		_ = r.Fail(context.Background(), errors.New("dial tcp: refused"), "", "")
		require.Len(t, n.notices, 1)
		assert.Equal(t, GenericFailure, n.notices[0].Message)
	})

	t.Run("unauthorized clears session and redirects", func(t *testing.T) {
		n, nav, s := &mockNotifier{}, &mockNavigator{}, &mockSessions{}
		r := NewReporter(n, nav, s)

		err := r.Fail(context.Background(), errors.Wrap(session.ErrUnauthorized, "get cart"), "x", RouteCart)
		require.ErrorIs(t, err, session.ErrUnauthorized)
		assert.Equal(t, 1, s.cleared)
		assert.Equal(t, []string{RouteCart}, nav.returnTo)
		require.Len(t, n.notices, 1)
	})

	t.Run("nil error", func(t *testing.T) {
		n := &mockNotifier{}
		r := NewReporter(n, &mockNavigator{}, &mockSessions{})
		require.NoError(t, r.Fail(context.Background(), nil, "", ""))
		assert.Empty(t, n.notices)
	})
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Notify(context.Background(), Notice{Level: LevelSuccess, Message: "Order placed"})
	c.Notify(context.Background(), Notice{Level: LevelError, Message: "Nope"})
	assert.Equal(t, "ok: Order placed\nerror: Nope\n", buf.String())
}

func TestRouter_ReturnPath(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	r := NewRouter(storage.NewMemory(), &buf)

	r.RedirectToLogin(ctx, RouteCheckout)
	assert.Equal(t, RouteLogin, r.Current())
	assert.Contains(t, buf.String(), "storefront login")

	got, err := r.TakeReturnPath(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteCheckout, got)

	got, err = r.TakeReturnPath(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "return path is consumed")
}
