package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/xenking/storefront/internal/domain/product"
)

var _ product.Backend = (*Client)(nil)

// ListProducts implements product.Backend.
func (cl *Client) ListProducts(ctx context.Context, q product.Query) (*product.Page[product.Product], error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}

	var resp envelope[[]wireProduct]
	if err := cl.do(ctx, call{
		op:     "ListProducts",
		method: http.MethodGet,
		path:   "/product",
		query:  v,
	}, &resp); err != nil {
		return nil, err
	}
	return toPage(resp.Data, resp.Meta, cl.toProduct), nil
}

// GetProduct implements product.Backend.
func (cl *Client) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	var resp envelope[wireProduct]
	if err := cl.do(ctx, call{
		op:       "GetProduct",
		method:   http.MethodGet,
		path:     "/product/" + url.PathEscape(id),
		notFound: product.ErrNotFound,
	}, &resp); err != nil {
		return nil, err
	}
	p := cl.toProduct(resp.Data)
	return &p, nil
}

// ListCategories implements product.Backend.
func (cl *Client) ListCategories(ctx context.Context) ([]product.Category, error) {
	var resp envelope[[]wireCategory]
	if err := cl.do(ctx, call{
		op:     "ListCategories",
		method: http.MethodGet,
		path:   "/category",
	}, &resp); err != nil {
		return nil, err
	}
	out := make([]product.Category, len(resp.Data))
	for i, c := range resp.Data {
		out[i] = cl.toCategory(c)
	}
	return out, nil
}

// CategoryProducts implements product.Backend.
func (cl *Client) CategoryProducts(ctx context.Context, slug string) ([]product.Product, error) {
	var resp envelope[[]wireProduct]
	if err := cl.do(ctx, call{
		op:       "CategoryProducts",
		method:   http.MethodGet,
		path:     "/category/" + url.PathEscape(slug) + "/products",
		notFound: product.ErrCategoryNotFound,
	}, &resp); err != nil {
		return nil, err
	}
	out := make([]product.Product, len(resp.Data))
	for i, p := range resp.Data {
		out[i] = cl.toProduct(p)
	}
	return out, nil
}

func productForm(in product.ProductInput) *form {
	f := newForm().
		setPtr("name", in.Name).
		setPtr("description", in.Description).
		setPtr("category", in.CategoryID)
	if in.Price != nil {
		f.set("price", in.Price.String())
	}
	if in.Stock != nil {
		f.set("stock", strconv.Itoa(*in.Stock))
	}
	for _, img := range in.Images {
		f.file("images", img)
	}
	return f
}

// CreateProduct implements product.Backend.
func (cl *Client) CreateProduct(ctx context.Context, in product.ProductInput) (*product.Product, error) {
	var resp envelope[wireProduct]
	if err := cl.do(ctx, call{
		op:     "CreateProduct",
		method: http.MethodPost,
		path:   "/product",
		form:   productForm(in),
	}, &resp); err != nil {
		return nil, err
	}
	p := cl.toProduct(resp.Data)
	return &p, nil
}

// UpdateProduct implements product.Backend.
func (cl *Client) UpdateProduct(ctx context.Context, id string, in product.ProductInput) (*product.Product, error) {
	var resp envelope[wireProduct]
	if err := cl.do(ctx, call{
		op:       "UpdateProduct",
		method:   http.MethodPatch,
		path:     "/product/" + url.PathEscape(id),
		form:     productForm(in),
		notFound: product.ErrNotFound,
	}, &resp); err != nil {
		return nil, err
	}
	p := cl.toProduct(resp.Data)
	return &p, nil
}

// DeleteProduct implements product.Backend.
func (cl *Client) DeleteProduct(ctx context.Context, id string) error {
	return cl.do(ctx, call{
		op:       "DeleteProduct",
		method:   http.MethodDelete,
		path:     "/product/" + url.PathEscape(id),
		notFound: product.ErrNotFound,
	}, nil)
}

func categoryForm(in product.CategoryInput) *form {
	f := newForm().setPtr("name", in.Name)
	if in.Image != nil {
		f.file("image", *in.Image)
	}
	return f
}

// CreateCategory implements product.Backend.
func (cl *Client) CreateCategory(ctx context.Context, in product.CategoryInput) (*product.Category, error) {
	var resp envelope[wireCategory]
	if err := cl.do(ctx, call{
		op:     "CreateCategory",
		method: http.MethodPost,
		path:   "/category",
		form:   categoryForm(in),
	}, &resp); err != nil {
		return nil, err
	}
	c := cl.toCategory(resp.Data)
	return &c, nil
}

// UpdateCategory implements product.Backend.
func (cl *Client) UpdateCategory(ctx context.Context, id string, in product.CategoryInput) (*product.Category, error) {
	var resp envelope[wireCategory]
	if err := cl.do(ctx, call{
		op:       "UpdateCategory",
		method:   http.MethodPatch,
		path:     "/category/" + url.PathEscape(id),
		form:     categoryForm(in),
		notFound: product.ErrCategoryNotFound,
	}, &resp); err != nil {
		return nil, err
	}
	c := cl.toCategory(resp.Data)
	return &c, nil
}

// DeleteCategory implements product.Backend.
func (cl *Client) DeleteCategory(ctx context.Context, id string) error {
	return cl.do(ctx, call{
		op:       "DeleteCategory",
		method:   http.MethodDelete,
		path:     "/category/" + url.PathEscape(id),
		notFound: product.ErrCategoryNotFound,
	}, nil)
}
