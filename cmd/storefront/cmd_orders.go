package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

func (c *cli) checkoutCmd() *cobra.Command {
	var (
		d         order.Draft
		payment   string
		proofPath string
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			d.PaymentMethod = order.PaymentMethod(payment)
			if proofPath != "" {
				data, err := os.ReadFile(proofPath)
				if err != nil {
					return errors.Wrap(err, "read payment proof")
				}
				d.Proof = &product.Upload{Filename: proofPath, Data: data}
			}
			if c.app.Sessions.Get().Authenticated() {
				if err := c.app.Cart.Refresh(ctx); err != nil {
					return err
				}
			}

			o, err := c.app.Orders.Submit(ctx, d)
			var verr *order.ValidationError
			if errors.As(err, &verr) {
				for _, f := range verr.Fields {
					_, _ = fmt.Fprintf(out, "  --%s: %s\n", f, order.Hint(f))
				}
			}
			if err != nil {
				return err
			}
			label, _ := order.StatusLabel(o.Status)
			_, _ = fmt.Fprintf(out, "Order %s: %s, total %s\n", o.ID, label, money(o.TotalPrice))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&d.Name, "name", "", "full name")
	f.StringVar(&d.Phone, "phone", "", "mobile number, e.g. 01012345678")
	f.StringVar(&d.Street, "street", "", "street")
	f.StringVar(&d.Building, "building", "", "building number")
	f.StringVar(&d.Floor, "floor", "", "floor")
	f.StringVar(&d.Apartment, "apartment", "", "apartment")
	f.StringVar(&d.Landmark, "landmark", "", "nearby landmark (optional)")
	f.StringVar(&d.Area, "area", "", "area")
	f.StringVar(&d.City, "city", "", "city (Cairo or Giza)")
	f.StringVar(&payment, "payment", string(order.PaymentCash), "payment method: cash or online")
	f.StringVar(&proofPath, "proof", "", "payment proof image, required for online payment")
	return cmd
}

func (c *cli) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show your orders",
	}

	var page int
	list := &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.app.Orders.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			return printOrders(cmd.OutOrStdout(), p)
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.app.Orders.Get(cmd.Context(), args[0])
			if errors.Is(err, order.ErrNotFound) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Order not found.")
				return nil
			}
			if err != nil {
				return err
			}
			return c.printOrder(cmd.OutOrStdout(), o)
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func printOrders(out io.Writer, p *product.Page[order.Order]) error {
	if len(p.Items) == 0 {
		_, _ = fmt.Fprintln(out, "No orders yet.")
		return nil
	}
	if err := table(out, "ID\tDATE\tSTATUS\tPAYMENT\tTOTAL", func(w io.Writer) {
		for _, o := range p.Items {
			label, _ := order.StatusLabel(o.Status)
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.ID, order.FormatDate(o.CreatedAt), label, o.PaymentType, money(o.TotalPrice))
		}
	}); err != nil {
		return err
	}
	pageFooter(out, p)
	return nil
}

func (c *cli) printOrder(out io.Writer, o *order.Order) error {
	label, color := order.StatusLabel(o.Status)
	_, _ = fmt.Fprintf(out, "Order %s  %s [%s]\n", o.ID, label, color)
	_, _ = fmt.Fprintf(out, "placed:  %s\npayment: %s\n", order.FormatDate(o.CreatedAt), o.PaymentType)
	if url := order.PaymentProofURL(c.app.Config.Uploads.BaseURL, o.PaymentProof); url != "" {
		_, _ = fmt.Fprintf(out, "proof:   %s\n", url)
	}
	a := o.Address
	_, _ = fmt.Fprintf(out, "ship to: %s, %s\n         %s %s, floor %s, apt %s, %s, %s\n",
		a.Name, a.Phone, a.Building, a.Street, a.Floor, a.Apartment, a.Area, a.City)
	if a.Landmark != "" {
		_, _ = fmt.Fprintf(out, "         near %s\n", a.Landmark)
	}
	_, _ = fmt.Fprintln(out)

	if err := table(out, "PRODUCT\tNAME\tPRICE\tQTY\tTOTAL", func(w io.Writer) {
		for _, l := range o.Lines {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", l.ProductID, l.Name, money(l.Price), l.Quantity, money(order.LineTotal(l)))
		}
	}); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\ntotal: %s\n", money(o.TotalPrice))
	return nil
}
