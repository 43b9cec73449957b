package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

var (
	// ErrNotFound is returned when the requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrEmptyCart is returned when an order is submitted without cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCartNotSaved is returned when the cart has lines but no server id.
	ErrCartNotSaved = errors.New("cart has no server id")
	// ErrProofRequired is returned when online payment has no proof image.
	ErrProofRequired = errors.New("payment proof is required for online payment")
	// ErrPaymentMethod is returned for an unknown payment method.
	ErrPaymentMethod = errors.New("unknown payment method")
	// ErrInvalidStatus is returned for a status that cannot be set or parsed.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrTransition is returned when strict transitions are enabled and the
	// target status is not reachable from the current one.
	ErrTransition = errors.New("order status transition not allowed")
)

// Status is the server-side lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusConfirmed  Status = "confirmed"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusConfirmed, StatusCompleted, StatusCancelled}

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidStatus, "%q", s)
}

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	// PaymentCash is cash on delivery.
	PaymentCash PaymentMethod = "cash"
	// PaymentOnline is a transfer proven by an uploaded receipt image.
	PaymentOnline PaymentMethod = "online"
)

// ParsePaymentMethod returns the PaymentMethod named by s.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentOnline:
		return PaymentMethod(s), nil
	default:
		return "", errors.Wrapf(ErrPaymentMethod, "%q", s)
	}
}

// Address is the delivery contact and address.
type Address struct {
	Name      string
	Phone     string
	Street    string
	Building  string
	Floor     string
	Apartment string
	Landmark  string
	Area      string
	City      string
}

// Draft is the in-progress checkout form.
type Draft struct {
	Address
	PaymentMethod PaymentMethod
	Proof         *product.Upload
}

// Submission is what the backend receives to create an order.
type Submission struct {
	CartID        string
	Address       Address
	PaymentMethod PaymentMethod
	Proof         *product.Upload
}

// Line is an ordered product with the price at order time.
type Line struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Image     string
	Quantity  int
}

// Order is the client copy of a server-owned order.
type Order struct {
	ID           string
	Lines        []Line
	Status       Status
	PaymentType  PaymentMethod
	PaymentProof string
	Address      Address
	TotalPrice   decimal.Decimal
	CreatedAt    time.Time
}

// Filter selects orders in the admin listing. An empty Status means all.
type Filter struct {
	Page   int
	Status Status
}

// Backend is the remote order API.
type Backend interface {
	CreateOrder(ctx context.Context, sub Submission) (*Order, error)
	ListUserOrders(ctx context.Context, page int) (*product.Page[Order], error)
	ListOrders(ctx context.Context, f Filter) (*product.Page[Order], error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	SetOrderStatus(ctx context.Context, id string, status Status) (*Order, error)
}
