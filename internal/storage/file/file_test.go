package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/storage"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := New(path)

	_, err := s.Get(ctx, "session.token")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, "session.token", []byte("abc")))
	require.NoError(t, s.Set(ctx, "favorites", []byte(`[{"id":"p1"}]`)))

	// A second Store on the same file sees the writes.
	other := New(path)
	got, err := other.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	require.NoError(t, other.Delete(ctx, "session.token"))
	_, err = s.Get(ctx, "session.token")
	require.ErrorIs(t, err, storage.ErrNotFound)

	fav, err := s.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(fav))
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := New(path).Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestStore_Ping(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "a", "b", "state.json"))
	require.NoError(t, s.Ping(context.Background()))
	assert.DirExists(t, filepath.Dir(s.Path()))
}
