package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/xenking/storefront/internal/domain/cart"
)

var _ cart.Backend = (*Client)(nil)

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (cl *Client) cartCall(ctx context.Context, c call) (*cart.Cart, error) {
	c.notFound = cart.ErrNotFound
	var resp envelope[wireCart]
	if err := cl.do(ctx, c, &resp); err != nil {
		return nil, err
	}
	return cl.toCart(resp.Data), nil
}

// GetCart implements cart.Backend.
func (cl *Client) GetCart(ctx context.Context) (*cart.Cart, error) {
	return cl.cartCall(ctx, call{op: "GetCart", method: http.MethodGet, path: "/cart"})
}

// CreateCart implements cart.Backend.
func (cl *Client) CreateCart(ctx context.Context, productID string, quantity int) (*cart.Cart, error) {
	return cl.cartCall(ctx, call{
		op:     "CreateCart",
		method: http.MethodPost,
		path:   "/cart/create",
		json:   cartItemRequest{ProductID: productID, Quantity: quantity},
	})
}

// AddToCart implements cart.Backend.
func (cl *Client) AddToCart(ctx context.Context, productID string, quantity int) (*cart.Cart, error) {
	return cl.cartCall(ctx, call{
		op:     "AddToCart",
		method: http.MethodPost,
		path:   "/cart",
		json:   cartItemRequest{ProductID: productID, Quantity: quantity},
	})
}

// UpdateCartItem implements cart.Backend.
func (cl *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) (*cart.Cart, error) {
	return cl.cartCall(ctx, call{
		op:     "UpdateCartItem",
		method: http.MethodPatch,
		path:   "/cart",
		json:   cartItemRequest{ProductID: productID, Quantity: quantity},
	})
}

// RemoveCartItem implements cart.Backend.
func (cl *Client) RemoveCartItem(ctx context.Context, productID string) (*cart.Cart, error) {
	return cl.cartCall(ctx, call{
		op:     "RemoveCartItem",
		method: http.MethodPatch,
		path:   "/cart/" + url.PathEscape(productID),
	})
}
