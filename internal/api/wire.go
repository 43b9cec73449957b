package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// envelope is the response wrapper used by every endpoint.
type envelope[T any] struct {
	Data    T         `json:"data"`
	Meta    *listMeta `json:"meta,omitempty"`
	Message string    `json:"message,omitempty"`
}

type listMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func toPage[W, T any](items []W, meta *listMeta, conv func(W) T) *product.Page[T] {
	out := &product.Page[T]{Items: make([]T, len(items))}
	for i, it := range items {
		out.Items[i] = conv(it)
	}
	if meta != nil {
		out.Page, out.Limit, out.Total, out.TotalPages = meta.Page, meta.Limit, meta.Total, meta.TotalPages
	}
	if out.Page == 0 {
		out.Page = 1
	}
	if out.TotalPages == 0 && len(items) > 0 {
		out.TotalPages = 1
	}
	if meta == nil {
		out.Total = len(items)
	}
	return out
}

type wireCategory struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

// UnmarshalJSON accepts either a category object or a bare category id.
func (c *wireCategory) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.ID)
	}
	type plain wireCategory
	return json.Unmarshal(data, (*plain)(c))
}

type wireProduct struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    wireCategory    `json:"category"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type wireCartItem struct {
	Product  wireProduct `json:"product"`
	Quantity int         `json:"quantity"`
}

type wireCart struct {
	ID    string         `json:"_id"`
	Items []wireCartItem `json:"items"`
}

type wireAddress struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	Building  string `json:"building"`
	Floor     string `json:"floor"`
	Apartment string `json:"apartment"`
	Landmark  string `json:"landmark"`
	Area      string `json:"area"`
	City      string `json:"city"`
}

type wireOrderItem struct {
	Product  wireProduct     `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type wireOrder struct {
	ID              string          `json:"_id"`
	Items           []wireOrderItem `json:"items"`
	Status          string          `json:"status"`
	PaymentType     string          `json:"paymentType"`
	PaymentProof    string          `json:"paymentProof"`
	ShippingAddress wireAddress     `json:"shippingAddress"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type wireGrant struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Data  *struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	} `json:"data"`
}

func (cl *Client) toCategory(w wireCategory) product.Category {
	return product.Category{ID: w.ID, Name: w.Name, Slug: w.Slug, Image: cl.resolve(w.Image)}
}

func (cl *Client) toProduct(w wireProduct) product.Product {
	return product.Product{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Price:       w.Price,
		Stock:       w.Stock,
		Category:    cl.toCategory(w.Category),
		Images:      cl.resolveAll(w.Images),
		CreatedAt:   w.CreatedAt,
	}
}

func (cl *Client) toCart(w wireCart) *cart.Cart {
	c := &cart.Cart{ID: w.ID, Lines: make([]cart.Line, 0, len(w.Items))}
	for _, it := range w.Items {
		p := cl.toProduct(it.Product)
		c.Lines = append(c.Lines, cart.Line{
			ProductID: p.ID,
			Product:   cart.Snapshot{Name: p.Name, Price: p.Price, Image: p.Image()},
			Quantity:  it.Quantity,
		})
	}
	return c
}

func (cl *Client) toOrder(w wireOrder) order.Order {
	o := order.Order{
		ID:           w.ID,
		Lines:        make([]order.Line, len(w.Items)),
		Status:       order.Status(w.Status),
		PaymentType:  order.PaymentMethod(w.PaymentType),
		PaymentProof: w.PaymentProof,
		Address:      order.Address(w.ShippingAddress),
		TotalPrice:   w.TotalPrice,
		CreatedAt:    w.CreatedAt,
	}
	for i, it := range w.Items {
		p := cl.toProduct(it.Product)
		price := it.Price
		if price.IsZero() {
			price = p.Price
		}
		o.Lines[i] = order.Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     price,
			Image:     p.Image(),
			Quantity:  it.Quantity,
		}
	}
	return o
}
