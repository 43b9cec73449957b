package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the store (admin accounts only)",
	}
	cmd.AddCommand(
		c.adminDashboardCmd(),
		c.adminOrdersCmd(),
		c.adminOrderStatusCmd(),
		c.adminProductCmd(),
		c.adminCategoryCmd(),
	)
	return cmd
}

func (c *cli) adminDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show store totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.app.Dashboard.Summary(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "products:   %d\ncategories: %d\norders:     %d\n\n", s.Products, s.Categories, s.TotalOrders())
			return table(out, "STATUS\tORDERS", func(w io.Writer) {
				for _, st := range order.Statuses {
					label, _ := order.StatusLabel(st)
					_, _ = fmt.Fprintf(w, "%s\t%d\n", label, s.Orders[st])
				}
			})
		},
	}
}

func (c *cli) adminOrdersCmd() *cobra.Command {
	var (
		page   int
		status string
	)
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List all orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.app.Orders.ListAdmin(cmd.Context(), page, order.Status(status))
			if err != nil {
				return err
			}
			return printOrders(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func (c *cli) adminOrderStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order-status ID [STATUS]",
		Short: "Show the status choices of an order, or change its status",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if len(args) == 2 {
				o, err := c.app.Orders.SetStatus(ctx, args[0], order.Status(args[1]))
				if err != nil {
					return err
				}
				label, _ := order.StatusLabel(o.Status)
				_, _ = fmt.Fprintf(out, "Order %s is now %s.\n", o.ID, label)
				return nil
			}

			o, err := c.app.Orders.Get(ctx, args[0])
			if errors.Is(err, order.ErrNotFound) {
				_, _ = fmt.Fprintln(out, "Order not found.")
				return nil
			}
			if err != nil {
				return err
			}
			label, _ := order.StatusLabel(o.Status)
			opts := order.StatusOptions(o.Status)
			if len(opts) == 0 {
				_, _ = fmt.Fprintf(out, "Order %s is %s and can no longer change status.\n", o.ID, label)
				return nil
			}
			names := make([]string, len(opts))
			for i, s := range opts {
				names[i] = string(s)
			}
			_, _ = fmt.Fprintf(out, "Order %s is %s. Choose: %s\n", o.ID, label, strings.Join(names, ", "))
			return nil
		},
	}
}

func readUploads(paths []string) ([]product.Upload, error) {
	out := make([]product.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", p)
		}
		u, err := product.NewImageUpload(p, data)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// productFlags binds the product form to flags. Only flags that were set
// end up in the input.
type productFlags struct {
	name, description, price, category string
	stock                              int
	images                             []string
}

func (f *productFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "product name")
	fs.StringVar(&f.description, "description", "", "description")
	fs.StringVar(&f.price, "price", "", "price")
	fs.StringVar(&f.category, "category", "", "category id")
	fs.IntVar(&f.stock, "stock", 0, "units in stock")
	fs.StringSliceVar(&f.images, "image", nil, "image file (repeatable)")
}

func (f *productFlags) input(cmd *cobra.Command) (product.ProductInput, error) {
	var in product.ProductInput
	fs := cmd.Flags()
	if fs.Changed("name") {
		in.Name = &f.name
	}
	if fs.Changed("description") {
		in.Description = &f.description
	}
	if fs.Changed("category") {
		in.CategoryID = &f.category
	}
	if fs.Changed("stock") {
		in.Stock = &f.stock
	}
	if fs.Changed("price") {
		d, err := decimal.NewFromString(f.price)
		if err != nil {
			return in, errors.Wrap(err, "parse price")
		}
		in.Price = &d
	}
	imgs, err := readUploads(f.images)
	if err != nil {
		return in, err
	}
	in.Images = imgs
	return in, nil
}

func (c *cli) adminProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Create, update or delete products",
	}

	var createFlags productFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := createFlags.input(cmd)
			if err != nil {
				return err
			}
			p, err := c.app.Catalog.CreateProduct(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
	createFlags.bind(create)

	var updateFlags productFlags
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := updateFlags.input(cmd)
			if err != nil {
				return err
			}
			_, err = c.app.Catalog.UpdateProduct(cmd.Context(), args[0], in)
			return err
		},
	}
	updateFlags.bind(update)

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Catalog.DeleteProduct(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(create, update, del)
	return cmd
}

func (c *cli) adminCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Create, update or delete categories",
	}

	categoryInput := func(cmd *cobra.Command, name, image string) (product.CategoryInput, error) {
		var in product.CategoryInput
		if cmd.Flags().Changed("name") {
			in.Name = &name
		}
		if image != "" {
			imgs, err := readUploads([]string{image})
			if err != nil {
				return in, err
			}
			in.Image = &imgs[0]
		}
		return in, nil
	}

	var name, image string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := categoryInput(cmd, name, image)
			if err != nil {
				return err
			}
			cat, err := c.app.Catalog.CreateCategory(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cat.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "category name")
	create.Flags().StringVar(&image, "image", "", "category image file")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := categoryInput(cmd, name, image)
			if err != nil {
				return err
			}
			_, err = c.app.Catalog.UpdateCategory(cmd.Context(), args[0], in)
			return err
		},
	}
	update.Flags().StringVar(&name, "name", "", "category name")
	update.Flags().StringVar(&image, "image", "", "category image file")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Catalog.DeleteCategory(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(create, update, del)
	return cmd
}
