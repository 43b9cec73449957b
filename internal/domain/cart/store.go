// Package cart keeps the client's copy of the server-side cart.
//
// Consistency model: every mutation is followed by a full refetch and the
// latest fetch wins. There is no optimistic merging.
package cart

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/ui"
)

// Sessions exposes the current session.
type Sessions interface {
	Get() session.Session
}

// Store is the only writer of the local cart.
type Store struct {
	backend  Backend
	sessions Sessions
	reporter *ui.Reporter
	shipping decimal.Decimal

	inFlight atomic.Bool

	mu   sync.RWMutex
	cart *Cart // nil until first fetched
}

// NewStore creates an unloaded Store.
func NewStore(backend Backend, sessions Sessions, reporter *ui.Reporter, shipping decimal.Decimal) *Store {
	return &Store{
		backend:  backend,
		sessions: sessions,
		reporter: reporter,
		shipping: shipping,
	}
}

// Cart returns a copy of the local cart, nil while unloaded.
func (s *Store) Cart() *Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// State reports whether the cart is unloaded, empty or populated.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.cart == nil:
		return StateUnloaded
	case s.cart.Count() == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// Shipping returns the fixed shipping charge.
func (s *Store) Shipping() decimal.Decimal { return s.shipping }

// Subtotal sums the current lines.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return decimal.Zero
	}
	return Subtotal(s.cart.Lines)
}

// ComputeTotal returns subtotal plus shipping.
func (s *Store) ComputeTotal() decimal.Decimal {
	return s.Subtotal().Add(s.shipping)
}

// Refresh replaces the local cart with the server's. A user without a cart
// gets an empty one.
func (s *Store) Refresh(ctx context.Context) error {
	c, err := s.backend.GetCart(ctx)
	if errors.Is(err, ErrNotFound) {
		s.replace(&Cart{})
		return nil
	}
	if err != nil {
		return s.reporter.Fail(ctx, errors.Wrap(err, "get cart"), "Could not load your cart", ui.RouteCart)
	}
	s.replace(c)
	return nil
}

// AddItem puts quantity units of a product in the cart, creating the cart on
// the server if the user has none.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) error {
	if s.sessions.Get().IsAdmin() {
		return s.reporter.Fail(ctx, ErrAdminCart, "Admins cannot add products to a cart", "")
	}
	if quantity < 1 {
		return s.reporter.Fail(ctx, ErrInvalidQuantity, "Quantity must be at least 1", "")
	}
	if !s.begin(ctx) {
		return ErrBusy
	}
	defer s.end()

	if s.State() == StateUnloaded {
		if err := s.Refresh(ctx); err != nil {
			return err
		}
	}

	var (
		c   *Cart
		err error
	)
	if cur := s.Cart(); cur == nil || cur.ID == "" {
		c, err = s.backend.CreateCart(ctx, productID, quantity)
	} else {
		c, err = s.backend.AddToCart(ctx, productID, quantity)
	}
	if err != nil {
		return s.reporter.Fail(ctx, errors.Wrapf(err, "add %s", productID), "Could not add the product to your cart", ui.RouteCart)
	}
	s.replace(c)
	s.reporter.Notify(ctx, ui.LevelSuccess, "Added to cart")

	return s.Refresh(ctx)
}

// SetQuantity changes the quantity of a line. Quantities below 1 remove it.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, productID)
	}
	if !s.begin(ctx) {
		return ErrBusy
	}
	defer s.end()

	c, err := s.backend.UpdateCartItem(ctx, productID, quantity)
	if err != nil {
		return s.reporter.Fail(ctx, errors.Wrapf(err, "update %s", productID), "Could not update the quantity", ui.RouteCart)
	}
	s.replace(c)

	return s.Refresh(ctx)
}

// RemoveItem deletes a line.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	if !s.begin(ctx) {
		return ErrBusy
	}
	defer s.end()

	if _, err := s.backend.RemoveCartItem(ctx, productID); err != nil {
		return s.reporter.Fail(ctx, errors.Wrapf(err, "remove %s", productID), "Could not remove the product", ui.RouteCart)
	}
	s.dropLine(productID)

	return s.Refresh(ctx)
}

// Clear empties the local copy. The server clears its cart when an order is
// placed; the next Refresh confirms it.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		s.cart = &Cart{}
		return
	}
	s.cart = &Cart{ID: s.cart.ID}
}

// begin claims the single mutation slot.
func (s *Store) begin(ctx context.Context) bool {
	if s.inFlight.CompareAndSwap(false, true) {
		return true
	}
	zctx.From(ctx).Debug("Cart mutation dropped, another is in flight")
	return false
}

func (s *Store) end() { s.inFlight.Store(false) }

func (s *Store) replace(c *Cart) {
	if c == nil {
		c = &Cart{}
	}
	c = c.Clone()

	s.mu.Lock()
	s.cart = c
	s.mu.Unlock()
}

func (s *Store) dropLine(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return
	}
	lines := s.cart.Lines[:0:0]
	for _, l := range s.cart.Lines {
		if l.ProductID != productID {
			lines = append(lines, l)
		}
	}
	s.cart.Lines = lines
}
