package main

import (
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/storefront/internal/domain/product"
)

func (c *cli) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}

	var q product.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.app.Catalog.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(p.Items) == 0 {
				_, _ = fmt.Fprintln(out, "No products found.")
				return nil
			}
			favs := c.app.Favorites
			if err := table(out, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\t", func(w io.Writer) {
				for _, it := range p.Items {
					mark := ""
					if favs.Has(it.ID) {
						mark = "*"
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", it.ID, it.Name, it.Category.Name, money(it.Price), it.Stock, mark)
				}
			}); err != nil {
				return err
			}
			pageFooter(out, p)
			return nil
		},
	}
	list.Flags().IntVar(&q.Page, "page", 1, "page number")
	list.Flags().IntVar(&q.Limit, "limit", product.DefaultLimit, "page size")
	list.Flags().StringVar(&q.Category, "category", "", "category id or slug")
	list.Flags().StringVar(&q.Keyword, "keyword", "", "search keyword")
	list.Flags().StringVar(&q.Sort, "sort", "", "sort order, e.g. price or -price")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Catalog.Get(cmd.Context(), args[0])
			out := cmd.OutOrStdout()
			if errors.Is(err, product.ErrNotFound) {
				_, _ = fmt.Fprintln(out, "Product not found.")
				return nil
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "%s  %s\n", p.Name, money(p.Price))
			_, _ = fmt.Fprintf(out, "category: %s\nstock:    %d\n", p.Category.Name, p.Stock)
			if p.Description != "" {
				_, _ = fmt.Fprintf(out, "\n%s\n", p.Description)
			}
			for _, img := range p.Images {
				_, _ = fmt.Fprintf(out, "image: %s\n", img)
			}
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (c *cli) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := c.app.Catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}
			return table(cmd.OutOrStdout(), "ID\tSLUG\tNAME", func(w io.Writer) {
				for _, cat := range cats {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", cat.ID, cat.Slug, cat.Name)
				}
			})
		},
	}

	products := &cobra.Command{
		Use:   "products SLUG",
		Short: "List the products of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := c.app.Catalog.CategoryProducts(cmd.Context(), args[0])
			out := cmd.OutOrStdout()
			if errors.Is(err, product.ErrCategoryNotFound) {
				_, _ = fmt.Fprintln(out, "Category not found.")
				return nil
			}
			if err != nil {
				return err
			}
			if len(ps) == 0 {
				_, _ = fmt.Fprintln(out, "This category has no products yet.")
				return nil
			}
			return table(out, "ID\tNAME\tPRICE", func(w io.Writer) {
				for _, p := range ps {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, money(p.Price))
				}
			})
		},
	}

	cmd.AddCommand(products)
	return cmd
}
