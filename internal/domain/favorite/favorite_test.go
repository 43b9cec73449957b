package favorite

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/storage"
	"github.com/xenking/storefront/internal/ui"
)

type staticSessions session.Session

func (s staticSessions) Get() session.Session { return session.Session(s) }

type mockNotifier struct{ notices []ui.Notice }

func (m *mockNotifier) Notify(_ context.Context, n ui.Notice) { m.notices = append(m.notices, n) }

type mockNavigator struct{}

func (mockNavigator) Navigate(context.Context, string) {}

func (mockNavigator) RedirectToLogin(context.Context, string) {}

type mockSessions struct{}

func (mockSessions) Clear(context.Context) error { return nil }

func newStore(kv storage.Store, s session.Session) *Store {
	return NewStore(kv, staticSessions(s), ui.NewReporter(&mockNotifier{}, mockNavigator{}, mockSessions{}))
}

func entry(id string) Entry {
	return Entry{ProductID: id, Name: "Product " + id, Price: decimal.NewFromInt(10), Category: "mugs"}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ProductID
	}
	return out
}

// failingSets is a store whose writes fail after it has been seeded.
type failingSets struct {
	*storage.Memory
	fail bool
}

func (f *failingSets) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func TestStore_ToggleRestoresOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	kv := &failingSets{Memory: storage.NewMemory()}
	s := newStore(kv, session.Session{})
	require.NoError(t, s.Load(ctx))
	_, err := s.Toggle(ctx, entry("p1"))
	require.NoError(t, err)

	kv.fail = true
	_, err = s.Toggle(ctx, entry("p2"))
	require.Error(t, err)
	assert.Equal(t, []string{"p1"}, ids(s.List()))

	_, err = s.Toggle(ctx, entry("p1"))
	require.Error(t, err)
	assert.True(t, s.Has("p1"))

	reloaded := newStore(kv, session.Session{})
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, ids(s.List()), ids(reloaded.List()))
}

func TestStore_ToggleIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	s := newStore(storage.NewMemory(), session.Session{})
	require.NoError(t, s.Load(ctx))

	added, err := s.Toggle(ctx, entry("p1"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, s.Has("p1"))

	added, err = s.Toggle(ctx, entry("p1"))
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, s.Has("p1"))
	assert.Empty(t, s.List())
}

func TestStore_NoDuplicatesAfterRandomToggles(t *testing.T) {
	ctx := context.Background()
	s := newStore(storage.NewMemory(), session.Session{})
	r := rand.New(rand.NewPCG(1, 2))
	pool := []string{"a", "b", "c", "d", "e"}
	want := map[string]bool{}

	for range 500 {
		id := pool[r.IntN(len(pool))]
		_, err := s.Toggle(ctx, entry(id))
		require.NoError(t, err)
		want[id] = !want[id]

		seen := map[string]bool{}
		for _, e := range s.List() {
			require.False(t, seen[e.ProductID], "duplicate %s", e.ProductID)
			seen[e.ProductID] = true
		}
	}

	for _, id := range pool {
		assert.Equal(t, want[id], s.Has(id), id)
	}
}

func TestStore_PersistsEveryChange(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newStore(kv, session.Session{Token: "t", Role: session.RoleCustomer})

	_, err := s.Toggle(ctx, entry("p1"))
	require.NoError(t, err)
	_, err = s.Toggle(ctx, entry("p2"))
	require.NoError(t, err)

	reloaded := newStore(kv, session.Session{})
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, []string{"p1", "p2"}, ids(reloaded.List()))

	_, err = s.Toggle(ctx, entry("p1"))
	require.NoError(t, err)
	raw, err := kv.Get(ctx, Key)
	require.NoError(t, err)

	var stored []Entry
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, []string{"p2"}, ids(stored))
}

func TestStore_LoadCollapsesDuplicates(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, Key, []byte(`[{"id":"p1","name":"first"},{"id":"p1","name":"second"},{"id":"p2"}]`)))

	s := newStore(kv, session.Session{})
	require.NoError(t, s.Load(ctx))
	list := s.List()
	assert.Equal(t, []string{"p1", "p2"}, ids(list))
	assert.Equal(t, "first", list[0].Name)
}

func TestStore_AdminRejected(t *testing.T) {
	kv := storage.NewMemory()
	s := newStore(kv, session.Session{Token: "t", Role: session.RoleAdmin})

	_, err := s.Toggle(context.Background(), entry("p1"))
	require.ErrorIs(t, err, ErrAdminFavorites)
	_, err = kv.Get(context.Background(), Key)
	require.ErrorIs(t, err, storage.ErrNotFound, "nothing persisted")
}
