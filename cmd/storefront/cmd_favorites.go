package main

import (
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/storefront/internal/domain/favorite"
	"github.com/xenking/storefront/internal/domain/product"
)

func (c *cli) favoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Show the products you liked on this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			entries := c.app.Favorites.List()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "No favorites yet.")
				return nil
			}
			return table(out, "ID\tNAME\tCATEGORY\tPRICE", func(w io.Writer) {
				for _, e := range entries {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ProductID, e.Name, e.Category, money(e.Price))
				}
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle PRODUCT_ID",
		Short: "Add a product to favorites, or remove it if already there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entry := favorite.Entry{ProductID: args[0]}
			if !c.app.Favorites.Has(args[0]) {
				p, err := c.app.Catalog.Get(ctx, args[0])
				if errors.Is(err, product.ErrNotFound) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Product not found.")
					return nil
				}
				if err != nil {
					return err
				}
				entry = favorite.Entry{
					ProductID: p.ID,
					Name:      p.Name,
					Price:     p.Price,
					Image:     p.Image(),
					Category:  p.Category.Name,
				}
			}
			_, err := c.app.Favorites.Toggle(ctx, entry)
			return err
		},
	}

	cmd.AddCommand(toggle)
	return cmd
}
