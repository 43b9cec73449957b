package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "k", []byte("v1")))
	require.NoError(t, m.Set(ctx, "k", []byte("v2")))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got), "last write wins")

	// Returned slices are copies.
	got[0] = 'x'
	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(again))

	require.NoError(t, m.Delete(ctx, "k", "never-set"))
	_, err = m.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, m.Ping(ctx))
}
