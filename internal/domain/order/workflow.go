// Package order implements checkout and order management: draft validation,
// submission, listings and admin status changes.
package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/ui"
)

// Sessions exposes the current session.
type Sessions interface {
	Get() session.Session
}

// Carts is the part of the cart store that checkout reads and resets.
type Carts interface {
	Cart() *cart.Cart
	State() cart.State
	Clear()
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithStrictTransitions makes SetStatus reject transitions outside the
// status graph instead of only hiding them from StatusOptions.
func WithStrictTransitions(strict bool) Option {
	return func(w *Workflow) { w.strict = strict }
}

// Workflow coordinates checkout and order management.
type Workflow struct {
	backend  Backend
	carts    Carts
	sessions Sessions
	reporter *ui.Reporter
	strict   bool
}

// NewWorkflow creates a Workflow.
func NewWorkflow(backend Backend, carts Carts, sessions Sessions, reporter *ui.Reporter, opts ...Option) *Workflow {
	w := &Workflow{backend: backend, carts: carts, sessions: sessions, reporter: reporter}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Submit places an order for the current cart. Every local check runs
// before the backend is contacted. The draft is never modified, so the form
// can be corrected and resubmitted after a failure.
func (w *Workflow) Submit(ctx context.Context, d Draft) (*Order, error) {
	if !w.sessions.Get().Authenticated() {
		w.reporter.Notify(ctx, ui.LevelInfo, "Please log in to place your order")
		w.reporter.RedirectToLogin(ctx, ui.RouteCheckout)
		return nil, session.ErrLoginRequired
	}

	c := w.carts.Cart()
	if w.carts.State() != cart.StatePopulated || c == nil {
		return nil, w.reporter.Fail(ctx, ErrEmptyCart, "Your cart is empty", "")
	}
	if c.ID == "" {
		return nil, w.reporter.Fail(ctx, ErrCartNotSaved, "Your cart is not saved yet, refresh it and try again", "")
	}

	addr := d.Address.Normalize()
	if err := NewChecker().CheckAddress(addr); err != nil {
		return nil, w.reporter.Fail(ctx, err, "", "")
	}

	method, err := ParsePaymentMethod(string(d.PaymentMethod))
	if err != nil {
		return nil, w.reporter.Fail(ctx, err, "Choose a payment method", "")
	}

	sub := Submission{CartID: c.ID, Address: addr, PaymentMethod: method}
	if method == PaymentOnline {
		if d.Proof == nil {
			return nil, w.reporter.Fail(ctx, ErrProofRequired, "Attach a screenshot of your payment to continue", "")
		}
		proof, err := product.NewImageUpload(d.Proof.Filename, d.Proof.Data)
		if err != nil {
			return nil, w.reporter.Fail(ctx, err, "", "")
		}
		sub.Proof = &proof
	}

	o, err := w.backend.CreateOrder(ctx, sub)
	if err != nil {
		return nil, w.reporter.Fail(ctx, errors.Wrap(err, "create order"), "Could not place your order", ui.RouteCheckout)
	}

	zctx.From(ctx).Info("Order placed",
		zap.String("order_id", o.ID),
		zap.String("payment", string(method)),
	)
	w.carts.Clear()
	w.reporter.Navigate(ctx, ui.RouteOrders)
	w.reporter.Notify(ctx, ui.LevelSuccess, "Order placed successfully")
	return o, nil
}

// List returns one page of the current user's orders.
func (w *Workflow) List(ctx context.Context, page int) (*product.Page[Order], error) {
	if !w.sessions.Get().Authenticated() {
		w.reporter.RedirectToLogin(ctx, ui.RouteOrders)
		return nil, session.ErrLoginRequired
	}
	if page < 1 {
		page = 1
	}

	p, err := w.backend.ListUserOrders(ctx, page)
	if err != nil {
		return nil, w.reporter.Fail(ctx, errors.Wrap(err, "list orders"), "Could not load your orders", ui.RouteOrders)
	}
	return p, nil
}

// ListAdmin returns one page of all orders, optionally filtered by status.
// Admin only.
func (w *Workflow) ListAdmin(ctx context.Context, page int, status Status) (*product.Page[Order], error) {
	if err := w.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if status != "" {
		if _, err := ParseStatus(string(status)); err != nil {
			return nil, w.reporter.Fail(ctx, err, "Unknown order status", "")
		}
	}
	if page < 1 {
		page = 1
	}

	p, err := w.backend.ListOrders(ctx, Filter{Page: page, Status: status})
	if err != nil {
		return nil, w.reporter.Fail(ctx, errors.Wrap(err, "list all orders"), "Could not load orders", "")
	}
	return p, nil
}

// Get returns a single order. ErrNotFound is returned without a notice so the
// caller can render a not-found view.
func (w *Workflow) Get(ctx context.Context, id string) (*Order, error) {
	if !w.sessions.Get().Authenticated() {
		w.reporter.RedirectToLogin(ctx, ui.RouteOrders+"/"+id)
		return nil, session.ErrLoginRequired
	}

	o, err := w.backend.GetOrder(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, w.reporter.Fail(ctx, errors.Wrapf(err, "get order %s", id), "Could not load order", "")
	}
	return o, nil
}

// SetStatus changes the status of an order. Admin only. Only pending,
// confirmed and cancelled can be set.
func (w *Workflow) SetStatus(ctx context.Context, id string, target Status) (*Order, error) {
	if err := w.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !Settable(target) {
		return nil, w.reporter.Fail(ctx, errors.Wrapf(ErrInvalidStatus, "set %q", target), "This status cannot be set", "")
	}

	if w.strict {
		cur, err := w.backend.GetOrder(ctx, id)
		if err != nil {
			return nil, w.reporter.Fail(ctx, errors.Wrapf(err, "get order %s", id), "Could not load order", "")
		}
		if !CanTransition(cur.Status, target) {
			err := errors.Wrapf(ErrTransition, "%s to %s", cur.Status, target)
			return nil, w.reporter.Fail(ctx, err, "This order can no longer be changed to that status", "")
		}
	}

	o, err := w.backend.SetOrderStatus(ctx, id, target)
	if err != nil {
		return nil, w.reporter.Fail(ctx, errors.Wrapf(err, "set order %s status", id), "Could not update order status", "")
	}
	label, _ := StatusLabel(target)
	w.reporter.Notify(ctx, ui.LevelSuccess, "Order marked as "+label)
	return o, nil
}

func (w *Workflow) requireAdmin(ctx context.Context) error {
	s := w.sessions.Get()
	if !s.Authenticated() {
		w.reporter.RedirectToLogin(ctx, "")
		return session.ErrLoginRequired
	}
	if !s.IsAdmin() {
		return w.reporter.Fail(ctx, session.ErrForbidden, "Only administrators can manage orders", "")
	}
	return nil
}
