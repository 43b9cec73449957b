package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/session"
)

// fakeAPI serves the few endpoints the command flows below touch.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		if body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"tok-1","role":"customer"}`)
	})
	mux.HandleFunc("GET /category", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":[]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	t   *testing.T
	url string
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("STOREFRONT_STORAGE_PATH", filepath.Join(dir, "state.json"))
	t.Setenv("STOREFRONT_PASSWORD", "secret")
	return &harness{t: t, url: fakeAPI(t).URL}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	out, _, err := h.runCLI(args...)
	return out, err
}

func (h *harness) runCLI(args ...string) (string, *cli, error) {
	h.t.Helper()
	c := newCLI(nil)
	var out bytes.Buffer
	c.root.SetOut(&out)
	c.root.SetErr(&out)
	c.root.SetArgs(append([]string{"--api-url", h.url, "--storage", "file"}, args...))
	err := c.execute(context.Background())
	return out.String(), c, err
}

func TestCLI_LoginResumesCheckout(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("checkout")
	require.ErrorIs(t, err, session.ErrLoginRequired)
	assert.Contains(t, out, "Please log in to place your order")
	assert.Contains(t, out, "storefront login")

	out, err = h.run("login", "--email", "a@b.c", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as customer")
	assert.Contains(t, out, "Continue with `storefront checkout`.")

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Equal(t, "customer\n", out)

	_, err = h.run("logout")
	require.NoError(t, err)
	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Equal(t, "guest\n", out)
}

func TestCLI_LoginRejected(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("login", "--email", "a@b.c", "--password", "wrong")
	require.ErrorIs(t, err, session.ErrUnauthorized)
	assert.Contains(t, out, "Invalid credentials")

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Equal(t, "guest\n", out)
}

func TestCLI_Doctor(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "storage")
	assert.Contains(t, out, "api")
	assert.NotContains(t, out, "FAIL")
}

func TestCLI_PasswordFromEnv(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("login", "--email", "a@b.c")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as customer")
}

func TestCLI_ClosesAppAfterFailure(t *testing.T) {
	h := newHarness(t)

	_, c, err := h.runCLI("checkout")
	require.Error(t, err)
	assert.Nil(t, c.app)

	_, c, err = h.runCLI("whoami")
	require.NoError(t, err)
	assert.Nil(t, c.app)
}
