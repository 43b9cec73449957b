package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/storage"
	"github.com/xenking/storefront/internal/storage/file"
)

func testConfig(baseURL string) *Config {
	return &Config{
		API:      APIConfig{BaseURL: baseURL, Timeout: time.Second},
		Shipping: "50",
		Storage:  StorageConfig{Driver: DriverMemory},
	}
}

func TestNew_Wiring(t *testing.T) {
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":[{"_id":"c1","name":"Mugs","slug":"mugs"}]}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	var out bytes.Buffer
	a, err := New(ctx, testConfig(srv.URL), nil, &out)
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close()) }()

	require.NoError(t, a.Sessions.Set(ctx, "tok-1", session.RoleCustomer))
	cats, err := a.Catalog.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, []string{"tok-1"}, tokens, "client reads the live session token")

	assert.True(t, a.Cart.Shipping().Equal(a.Cart.ComputeTotal()), "empty cart costs shipping only")

	r := a.Health.Run(ctx)
	assert.True(t, r.OK(), r.Failures())
}

func TestNew_RestoresSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	kv := file.New(path)
	require.NoError(t, kv.Set(ctx, session.KeyToken, []byte("persisted")))
	require.NoError(t, kv.Set(ctx, session.KeyRole, []byte("admin")))

	cfg := testConfig("http://localhost:1")
	cfg.Storage = StorageConfig{Driver: DriverFile, Path: path}
	a, err := New(ctx, cfg, nil, io.Discard)
	require.NoError(t, err)

	s := a.Sessions.Get()
	assert.Equal(t, "persisted", s.Token)
	assert.True(t, s.IsAdmin())
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	kv, err := OpenStorage(ctx, &Config{Storage: StorageConfig{Driver: DriverMemory}})
	require.NoError(t, err)
	assert.IsType(t, &storage.Memory{}, kv)

	kv, err = OpenStorage(ctx, &Config{Storage: StorageConfig{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "s.json")}})
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, kv)

	_, err = OpenStorage(ctx, &Config{Storage: StorageConfig{Driver: "sqlite"}})
	assert.Error(t, err)
}
