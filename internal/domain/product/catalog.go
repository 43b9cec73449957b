// Package product covers catalog browsing and admin management of products
// and categories.
package product

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/ui"
)

// DefaultLimit is the page size used when Query.Limit is zero.
const DefaultLimit = 12

// Sessions exposes the current session.
type Sessions interface {
	Get() session.Session
}

// Catalog is the read path used by the storefront screens and the write path
// used by the admin dashboard.
type Catalog struct {
	backend  Backend
	sessions Sessions
	reporter *ui.Reporter
}

// NewCatalog creates a Catalog.
func NewCatalog(backend Backend, sessions Sessions, reporter *ui.Reporter) *Catalog {
	return &Catalog{backend: backend, sessions: sessions, reporter: reporter}
}

// List returns one page of products. Page numbers start at 1.
func (c *Catalog) List(ctx context.Context, q Query) (*Page[Product], error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	q.Keyword = strings.TrimSpace(q.Keyword)

	page, err := c.backend.ListProducts(ctx, q)
	if err != nil {
		return nil, c.reporter.Fail(ctx, errors.Wrap(err, "list products"), "Could not load products", "")
	}
	return page, nil
}

// Get returns a single product. ErrNotFound is not reported as a failure so
// that callers can render a not-found view.
func (c *Catalog) Get(ctx context.Context, id string) (*Product, error) {
	p, err := c.backend.GetProduct(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, c.reporter.Fail(ctx, errors.Wrapf(err, "get product %s", id), "Could not load product", "")
	}
	return p, nil
}

// Categories lists all categories.
func (c *Catalog) Categories(ctx context.Context) ([]Category, error) {
	cats, err := c.backend.ListCategories(ctx)
	if err != nil {
		return nil, c.reporter.Fail(ctx, errors.Wrap(err, "list categories"), "Could not load categories", "")
	}
	return cats, nil
}

// CategoryProducts lists the products of the category with the given slug.
func (c *Catalog) CategoryProducts(ctx context.Context, slug string) ([]Product, error) {
	ps, err := c.backend.CategoryProducts(ctx, slug)
	if errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, c.reporter.Fail(ctx, errors.Wrapf(err, "list category %s", slug), "Could not load category", "")
	}
	return ps, nil
}

// CreateProduct adds a product. Admin only.
func (c *Catalog) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if err := c.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, c.reporter.Fail(ctx, errors.New("product name is required"), "Product name is required", "")
	}
	if in.Price == nil || in.Price.IsNegative() {
		return nil, c.reporter.Fail(ctx, errors.New("product price must not be negative"), "Product price must not be negative", "")
	}

	p, err := c.backend.CreateProduct(ctx, in)
	if err != nil {
		return nil, c.reporter.Fail(ctx, errors.Wrap(err, "create product"), "Could not create product", "")
	}
	c.reporter.Notify(ctx, ui.LevelSuccess, "Product created")
	return p, nil
}

// UpdateProduct changes the non-nil fields of a product. Admin only.
func (c *Catalog) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	if err := c.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, c.reporter.Fail(ctx, errors.New("product price must not be negative"), "Product price must not be negative", "")
	}

	p, err := c.backend.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, c.reporter.Fail(ctx, errors.Wrapf(err, "update product %s", id), "Could not update product", "")
	}
	c.reporter.Notify(ctx, ui.LevelSuccess, "Product updated")
	return p, nil
}

// DeleteProduct removes a product. Admin only.
func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	if err := c.requireAdmin(ctx); err != nil {
		return err
	}
	if err := c.backend.DeleteProduct(ctx, id); err != nil {
		return c.reporter.Fail(ctx, errors.Wrapf(err, "delete product %s", id), "Could not delete product", "")
	}
	c.reporter.Notify(ctx, ui.LevelSuccess, "Product deleted")
	return nil
}

// CreateCategory adds a category. Admin only.
func (c *Catalog) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	if err := c.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, c.reporter.Fail(ctx, errors.New("category name is required"), "Category name is required", "")
	}

	cat, err := c.backend.CreateCategory(ctx, in)
	if err != nil {
		return nil, c.reporter.Fail(ctx, errors.Wrap(err, "create category"), "Could not create category", "")
	}
	c.reporter.Notify(ctx, ui.LevelSuccess, "Category created")
	return cat, nil
}

// UpdateCategory changes a category. Admin only.
func (c *Catalog) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Category, error) {
	if err := c.requireAdmin(ctx); err != nil {
		return nil, err
	}

	cat, err := c.backend.UpdateCategory(ctx, id, in)
	if err != nil {
		return nil, c.reporter.Fail(ctx, errors.Wrapf(err, "update category %s", id), "Could not update category", "")
	}
	c.reporter.Notify(ctx, ui.LevelSuccess, "Category updated")
	return cat, nil
}

// DeleteCategory removes a category. Admin only.
func (c *Catalog) DeleteCategory(ctx context.Context, id string) error {
	if err := c.requireAdmin(ctx); err != nil {
		return err
	}
	if err := c.backend.DeleteCategory(ctx, id); err != nil {
		return c.reporter.Fail(ctx, errors.Wrapf(err, "delete category %s", id), "Could not delete category", "")
	}
	c.reporter.Notify(ctx, ui.LevelSuccess, "Category deleted")
	return nil
}

func (c *Catalog) requireAdmin(ctx context.Context) error {
	s := c.sessions.Get()
	if !s.Authenticated() {
		c.reporter.RedirectToLogin(ctx, "")
		return session.ErrLoginRequired
	}
	if !s.IsAdmin() {
		return c.reporter.Fail(ctx, session.ErrForbidden, "Only administrators can manage the catalog", "")
	}
	return nil
}
