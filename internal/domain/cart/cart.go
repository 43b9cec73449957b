package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by the backend when the user has no cart yet.
	ErrNotFound = errors.New("cart not found")
	// ErrAdminCart is returned when an admin session tries to shop.
	ErrAdminCart = errors.New("admins cannot add items to a cart")
	// ErrBusy is returned when a mutation is dropped because another one is
	// still in flight.
	ErrBusy = errors.New("cart update already in progress")
	// ErrInvalidQuantity is returned when adding a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// State is the observable state of the local cart copy.
type State int

const (
	StateUnloaded State = iota
	StateEmpty
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	default:
		return "unloaded"
	}
}

// Snapshot is the product data the server embeds in a cart line.
type Snapshot struct {
	Name  string
	Price decimal.Decimal
	Image string
}

// Line is one product in the cart. A quantity of 0 is the same as no line.
type Line struct {
	ProductID string
	Product   Snapshot
	Quantity  int
}

// Total returns price × quantity.
func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart mirrors the server-side cart.
type Cart struct {
	ID    string
	Lines []Line
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := &Cart{ID: c.ID, Lines: make([]Line, 0, len(c.Lines))}
	for _, l := range c.Lines {
		if l.Quantity > 0 {
			out.Lines = append(out.Lines, l)
		}
	}
	return out
}

// Count returns the number of lines.
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	return len(c.Lines)
}

// Subtotal returns Σ price × quantity over lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// Total returns the subtotal plus the shipping charge. No rounding is
// applied; use Round(2) for display.
func Total(lines []Line, shipping decimal.Decimal) decimal.Decimal {
	return Subtotal(lines).Add(shipping)
}

// Backend is the remote cart API. Every call returns the full cart as the
// server sees it after the operation.
type Backend interface {
	GetCart(ctx context.Context) (*Cart, error)
	CreateCart(ctx context.Context, productID string, quantity int) (*Cart, error)
	AddToCart(ctx context.Context, productID string, quantity int) (*Cart, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) (*Cart, error)
	RemoveCartItem(ctx context.Context, productID string) (*Cart, error)
}
