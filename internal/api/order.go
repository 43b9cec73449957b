package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

var _ order.Backend = (*Client)(nil)

// CreateOrder implements order.Backend. The payload is multipart so that the
// payment proof can travel with the shipping details.
func (cl *Client) CreateOrder(ctx context.Context, sub order.Submission) (*order.Order, error) {
	a := sub.Address
	f := newForm().
		set("cartId", sub.CartID).
		set("name", a.Name).
		set("phone", a.Phone).
		set("street", a.Street).
		set("building", a.Building).
		set("floor", a.Floor).
		set("apartment", a.Apartment).
		set("landmark", a.Landmark).
		set("area", a.Area).
		set("city", a.City).
		set("paymentMethod", string(sub.PaymentMethod))
	if sub.Proof != nil {
		f.file("paymentProof", *sub.Proof)
	}

	var resp envelope[wireOrder]
	if err := cl.do(ctx, call{
		op:     "CreateOrder",
		method: http.MethodPost,
		path:   "/order",
		form:   f,
	}, &resp); err != nil {
		return nil, err
	}
	o := cl.toOrder(resp.Data)
	return &o, nil
}

func (cl *Client) listOrders(ctx context.Context, c call) (*product.Page[order.Order], error) {
	var resp envelope[[]wireOrder]
	if err := cl.do(ctx, c, &resp); err != nil {
		return nil, err
	}
	return toPage(resp.Data, resp.Meta, cl.toOrder), nil
}

// ListUserOrders implements order.Backend.
func (cl *Client) ListUserOrders(ctx context.Context, page int) (*product.Page[order.Order], error) {
	return cl.listOrders(ctx, call{
		op:     "ListUserOrders",
		method: http.MethodGet,
		path:   "/order/user/orders",
		query:  url.Values{"page": {strconv.Itoa(page)}},
	})
}

// ListOrders implements order.Backend.
func (cl *Client) ListOrders(ctx context.Context, f order.Filter) (*product.Page[order.Order], error) {
	v := url.Values{"page": {strconv.Itoa(f.Page)}}
	if f.Status != "" {
		v.Set("status", string(f.Status))
	}
	return cl.listOrders(ctx, call{
		op:     "ListOrders",
		method: http.MethodGet,
		path:   "/order",
		query:  v,
	})
}

// GetOrder implements order.Backend.
func (cl *Client) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	var resp envelope[wireOrder]
	if err := cl.do(ctx, call{
		op:       "GetOrder",
		method:   http.MethodGet,
		path:     "/order/" + url.PathEscape(id),
		notFound: order.ErrNotFound,
	}, &resp); err != nil {
		return nil, err
	}
	o := cl.toOrder(resp.Data)
	return &o, nil
}

// SetOrderStatus implements order.Backend.
func (cl *Client) SetOrderStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	var resp envelope[wireOrder]
	if err := cl.do(ctx, call{
		op:       "SetOrderStatus",
		method:   http.MethodPatch,
		path:     "/order/" + url.PathEscape(id) + "/status",
		json:     map[string]string{"status": string(status)},
		notFound: order.ErrNotFound,
	}, &resp); err != nil {
		return nil, err
	}
	o := cl.toOrder(resp.Data)
	return &o, nil
}
