package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/ui"
)

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func table(out io.Writer, header string, rows func(w io.Writer)) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, header)
	rows(w)
	return w.Flush()
}

func pageFooter[T any](out io.Writer, p *product.Page[T]) {
	if p.TotalPages <= 1 {
		return
	}
	var nav []string
	if p.HasPrev() {
		nav = append(nav, fmt.Sprintf("prev: --page %d", p.Page-1))
	}
	if p.HasNext() {
		nav = append(nav, fmt.Sprintf("next: --page %d", p.Page+1))
	}
	_, _ = fmt.Fprintf(out, "page %d of %d (%d total)  %s\n", p.Page, p.TotalPages, p.Total, strings.Join(nav, "  "))
}

// resumeCommand maps a remembered route to the command that shows it.
func resumeCommand(route string) string {
	switch {
	case route == ui.RouteCheckout:
		return "storefront checkout"
	case route == ui.RouteCart:
		return "storefront cart"
	case route == ui.RouteOrders:
		return "storefront orders list"
	case strings.HasPrefix(route, ui.RouteOrders+"/"):
		return "storefront orders show " + strings.TrimPrefix(route, ui.RouteOrders+"/")
	case route == "":
		return ""
	default:
		return "storefront"
	}
}
