package admin

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/ui"
)

// --- Mock implementations ---

type mockCatalog struct {
	products   int
	categories int
	err        error
}

func (m *mockCatalog) ListProducts(_ context.Context, q product.Query) (*product.Page[product.Product], error) {
	if m.err != nil {
		return nil, m.err
	}
	return &product.Page[product.Product]{Page: q.Page, Limit: q.Limit, Total: m.products}, nil
}

func (m *mockCatalog) ListCategories(context.Context) ([]product.Category, error) {
	return make([]product.Category, m.categories), nil
}

type mockOrders struct {
	mu     sync.Mutex
	counts map[order.Status]int
	failOn order.Status
	seen   []order.Status
}

func (m *mockOrders) ListOrders(ctx context.Context, f order.Filter) (*product.Page[order.Order], error) {
	m.mu.Lock()
	m.seen = append(m.seen, f.Status)
	m.mu.Unlock()
	if f.Status == m.failOn {
		return nil, errors.New("boom")
	}
	return &product.Page[order.Order]{Page: f.Page, Total: m.counts[f.Status]}, nil
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

func newDashboard(c Catalog, o Orders, s session.Session) (*Dashboard, *mockNotifier, *mockNavigator) {
	n, nav := &mockNotifier{}, &mockNavigator{}
	return NewDashboard(c, o, staticSessions(s), ui.NewReporter(n, nav, mockSessions{})), n, nav
}

var admin = session.Session{Token: "t", Role: session.RoleAdmin}

// --- Tests ---

func TestDashboard_Summary(t *testing.T) {
	orders := &mockOrders{counts: map[order.Status]int{
		order.StatusPending:   4,
		order.StatusConfirmed: 2,
		order.StatusCancelled: 1,
	}}
	d, _, _ := newDashboard(&mockCatalog{products: 42, categories: 5}, orders, admin)

	s, err := d.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, s.Products)
	assert.Equal(t, 5, s.Categories)
	assert.Equal(t, 4, s.Orders[order.StatusPending])
	assert.Equal(t, 0, s.Orders[order.StatusCompleted])
	assert.Len(t, s.Orders, len(order.Statuses))
	assert.Equal(t, 7, s.TotalOrders())
	assert.ElementsMatch(t, order.Statuses, orders.seen)
}

func TestDashboard_SummaryFailure(t *testing.T) {
	orders := &mockOrders{failOn: order.StatusProcessing}
	d, n, _ := newDashboard(&mockCatalog{}, orders, admin)

	_, err := d.Summary(context.Background())
	require.Error(t, err)
	require.Len(t, n.notices, 1)
	assert.Equal(t, ui.LevelError, n.notices[0].Level)
}

func TestDashboard_Guard(t *testing.T) {
	tests := []struct {
		name    string
		session session.Session
		wantErr error
		logins  int
	}{
		{"guest", session.Session{}, session.ErrLoginRequired, 1},
		{"customer", session.Session{Token: "t", Role: session.RoleCustomer}, session.ErrForbidden, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, nav := newDashboard(&mockCatalog{}, &mockOrders{}, tt.session)
			_, err := d.Summary(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.logins, nav.logins)
		})
	}
}
