package product

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/ui"
)

// --- Mock implementations ---

type mockBackend struct {
	Backend // unimplemented methods panic

	lastQuery Query
	page      *Page[Product]
	product   *Product
	err       error
	created   *ProductInput
	deleted   string
}

func (m *mockBackend) ListProducts(_ context.Context, q Query) (*Page[Product], error) {
	m.lastQuery = q
	return m.page, m.err
}

func (m *mockBackend) GetProduct(_ context.Context, _ string) (*Product, error) {
	return m.product, m.err
}

func (m *mockBackend) CreateProduct(_ context.Context, in ProductInput) (*Product, error) {
	m.created = &in
	return &Product{ID: "new", Name: *in.Name}, m.err
}

func (m *mockBackend) DeleteProduct(_ context.Context, id string) error {
	m.deleted = id
	return m.err
}

type staticSessions session.Session

func (s staticSessions) Get() session.Session { return session.Session(s) }

type mockNotifier struct{ notices []ui.Notice }

func (m *mockNotifier) Notify(_ context.Context, n ui.Notice) { m.notices = append(m.notices, n) }

type mockNavigator struct{ logins int }

func (m *mockNavigator) Navigate(context.Context, string) {}

func (m *mockNavigator) RedirectToLogin(context.Context, string) { m.logins++ }

type mockSessions struct{}

func (mockSessions) Clear(context.Context) error { return nil }

// --- Helpers ---

func newCatalog(b Backend, s session.Session) (*Catalog, *mockNotifier, *mockNavigator) {
	n, nav := &mockNotifier{}, &mockNavigator{}
	return NewCatalog(b, staticSessions(s), ui.NewReporter(n, nav, mockSessions{})), n, nav
}

func ptr[T any](v T) *T { return &v }

var (
	admin    = session.Session{Token: "t", Role: session.RoleAdmin}
	customer = session.Session{Token: "t", Role: session.RoleCustomer}
)

// --- Tests ---

func TestCatalog_ListDefaults(t *testing.T) {
	b := &mockBackend{page: &Page[Product]{Page: 1, TotalPages: 3}}
	c, _, _ := newCatalog(b, session.Session{})

	page, err := c.List(context.Background(), Query{Keyword: "  mug "})
	require.NoError(t, err)
	assert.Equal(t, Query{Page: 1, Limit: DefaultLimit, Keyword: "mug"}, b.lastQuery)
	assert.True(t, page.HasNext())
	assert.False(t, page.HasPrev())
}

func TestCatalog_GetNotFoundIsNotReported(t *testing.T) {
	b := &mockBackend{err: errors.Wrap(ErrNotFound, "404")}
	c, n, _ := newCatalog(b, session.Session{})

	_, err := c.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, n.notices)
}

func TestCatalog_GetFailureIsReported(t *testing.T) {
	b := &mockBackend{err: errors.New("boom")}
	c, n, _ := newCatalog(b, session.Session{})

	_, err := c.Get(context.Background(), "p1")
	require.Error(t, err)
	require.Len(t, n.notices, 1)
	assert.Equal(t, "Could not load product", n.notices[0].Message)
}

func TestCatalog_AdminGuard(t *testing.T) {
	tests := []struct {
		name       string
		session    session.Session
		wantErr    error
		wantLogins int
	}{
		{name: "guest redirected to login", session: session.Session{Role: session.RoleGuest}, wantErr: session.ErrLoginRequired, wantLogins: 1},
		{name: "customer forbidden", session: customer, wantErr: session.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &mockBackend{}
			c, _, nav := newCatalog(b, tt.session)

			err := c.DeleteProduct(context.Background(), "p1")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, b.deleted, "no request issued")
			assert.Equal(t, tt.wantLogins, nav.logins)
		})
	}
}

func TestCatalog_CreateProduct(t *testing.T) {
	b := &mockBackend{}
	c, n, _ := newCatalog(b, admin)

	_, err := c.CreateProduct(context.Background(), ProductInput{Name: ptr(" ")})
	require.Error(t, err)
	assert.Nil(t, b.created)

	_, err = c.CreateProduct(context.Background(), ProductInput{Name: ptr("Mug"), Price: ptr(decimal.NewFromInt(-1))})
	require.Error(t, err)
	assert.Nil(t, b.created)

	p, err := c.CreateProduct(context.Background(), ProductInput{Name: ptr("Mug"), Price: ptr(decimal.NewFromInt(120))})
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
	require.NotNil(t, b.created)
	assert.Equal(t, ui.LevelSuccess, n.notices[len(n.notices)-1].Level)
}

func TestNewImageUpload(t *testing.T) {
	up, err := NewImageUpload("/tmp/proof.JPG", []byte{0xff, 0xd8})
	require.NoError(t, err)
	assert.Equal(t, "proof.JPG", up.Filename)
	assert.Equal(t, "image/jpeg", up.ContentType)

	_, err = NewImageUpload("notes.txt", []byte("x"))
	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)

	_, err = NewImageUpload("big.png", make([]byte, MaxUploadSize+1))
	require.ErrorAs(t, err, &uerr)

	_, err = NewImageUpload("empty.png", nil)
	require.ErrorAs(t, err, &uerr)
}
