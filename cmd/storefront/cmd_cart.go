package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/ui"
)

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change your cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireLogin(cmd, ui.RouteCart); err != nil {
				return err
			}
			if err := c.app.Cart.Refresh(cmd.Context()); err != nil {
				return err
			}
			return c.printCart(cmd.OutOrStdout())
		},
	}

	var qty int
	add := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(cmd, ui.RouteCart); err != nil {
				return err
			}
			if err := c.app.Cart.AddItem(cmd.Context(), args[0], qty); err != nil {
				return err
			}
			return c.printCart(cmd.OutOrStdout())
		},
	}
	add.Flags().IntVarP(&qty, "quantity", "q", 1, "quantity to add")

	set := &cobra.Command{
		Use:   "set PRODUCT_ID QUANTITY",
		Short: "Change the quantity of a line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrap(err, "parse quantity")
			}
			if err := c.requireLogin(cmd, ui.RouteCart); err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.app.Cart.Refresh(ctx); err != nil {
				return err
			}
			if err := c.app.Cart.SetQuantity(ctx, args[0], n); err != nil {
				return err
			}
			return c.printCart(cmd.OutOrStdout())
		},
	}

	remove := &cobra.Command{
		Use:   "remove PRODUCT_ID",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(cmd, ui.RouteCart); err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.app.Cart.Refresh(ctx); err != nil {
				return err
			}
			if err := c.app.Cart.RemoveItem(ctx, args[0]); err != nil {
				return err
			}
			return c.printCart(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(add, set, remove)
	return cmd
}

func (c *cli) printCart(out io.Writer) error {
	store := c.app.Cart
	if store.State() != cart.StatePopulated {
		_, _ = fmt.Fprintln(out, "Your cart is empty.")
		return nil
	}
	cur := store.Cart()
	if err := table(out, "PRODUCT\tNAME\tPRICE\tQTY\tTOTAL", func(w io.Writer) {
		for _, l := range cur.Lines {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", l.ProductID, l.Product.Name, money(l.Product.Price), l.Quantity, money(l.Total()))
		}
	}); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\nsubtotal: %s\nshipping: %s\ntotal:    %s\n",
		money(store.Subtotal()), money(store.Shipping()), money(store.ComputeTotal()))
	return nil
}

// requireLogin redirects guests to login, remembering returnTo.
func (c *cli) requireLogin(cmd *cobra.Command, returnTo string) error {
	if c.app.Sessions.Get().Authenticated() {
		return nil
	}
	c.app.Reporter.RedirectToLogin(cmd.Context(), returnTo)
	return session.ErrLoginRequired
}
