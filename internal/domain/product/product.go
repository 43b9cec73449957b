package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrCategoryNotFound is returned when a requested category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
)

// Product represents a catalog item available for purchase.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    Category
	Images      []string
	CreatedAt   time.Time
}

// Image returns the first image path, or "" when the product has none.
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Category groups products.
type Category struct {
	ID    string
	Name  string
	Slug  string
	Image string
}

// Query filters and paginates the product list. Zero values mean "any".
type Query struct {
	Page     int
	Limit    int
	Category string
	Keyword  string
	Sort     string
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []T
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProductInput is the admin form for creating or updating a product. Nil
// fields are left unchanged on update.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	CategoryID  *string
	Images      []Upload
}

// CategoryInput is the admin form for creating or updating a category.
type CategoryInput struct {
	Name  *string
	Image *Upload
}

// Backend is the remote catalog API.
type Backend interface {
	ListProducts(ctx context.Context, q Query) (*Page[Product], error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CategoryProducts(ctx context.Context, slug string) ([]Product, error)

	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, in CategoryInput) (*Category, error)
	UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
