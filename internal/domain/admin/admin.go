// Package admin builds the admin dashboard overview.
package admin

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/ui"
)

// Catalog is the part of the catalog backend the dashboard counts.
type Catalog interface {
	ListProducts(ctx context.Context, q product.Query) (*product.Page[product.Product], error)
	ListCategories(ctx context.Context) ([]product.Category, error)
}

// Orders is the part of the order backend the dashboard counts.
type Orders interface {
	ListOrders(ctx context.Context, f order.Filter) (*product.Page[order.Order], error)
}

// Sessions exposes the current session.
type Sessions interface {
	Get() session.Session
}

// Summary is the dashboard overview.
type Summary struct {
	Products   int
	Categories int
	Orders     map[order.Status]int
}

// TotalOrders sums the per-status order counts.
func (s Summary) TotalOrders() int {
	var n int
	for _, c := range s.Orders {
		n += c
	}
	return n
}

// Dashboard aggregates counts for admins.
type Dashboard struct {
	catalog  Catalog
	orders   Orders
	sessions Sessions
	reporter *ui.Reporter
}

// NewDashboard creates a Dashboard.
func NewDashboard(catalog Catalog, orders Orders, sessions Sessions, reporter *ui.Reporter) *Dashboard {
	return &Dashboard{catalog: catalog, orders: orders, sessions: sessions, reporter: reporter}
}

// Summary fetches every count concurrently. The first failure cancels the
// remaining requests and is reported once.
func (d *Dashboard) Summary(ctx context.Context) (*Summary, error) {
	s := d.sessions.Get()
	if !s.Authenticated() {
		d.reporter.RedirectToLogin(ctx, "")
		return nil, session.ErrLoginRequired
	}
	if !s.IsAdmin() {
		return nil, d.reporter.Fail(ctx, session.ErrForbidden, "Only administrators can open the dashboard", "")
	}

	var (
		out = &Summary{Orders: make(map[order.Status]int, len(order.Statuses))}
		mu  sync.Mutex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := d.catalog.ListProducts(gctx, product.Query{Page: 1, Limit: 1})
		if err != nil {
			return errors.Wrap(err, "count products")
		}
		out.Products = p.Total
		return nil
	})
	g.Go(func() error {
		cats, err := d.catalog.ListCategories(gctx)
		if err != nil {
			return errors.Wrap(err, "count categories")
		}
		out.Categories = len(cats)
		return nil
	})
	for _, st := range order.Statuses {
		g.Go(func() error {
			p, err := d.orders.ListOrders(gctx, order.Filter{Page: 1, Status: st})
			if err != nil {
				return errors.Wrapf(err, "count %s orders", st)
			}
			mu.Lock()
			out.Orders[st] = p.Total
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, d.reporter.Fail(ctx, err, "Could not load the dashboard", "")
	}
	return out, nil
}
