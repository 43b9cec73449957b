package main

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/spf13/cobra"

	appkg "github.com/xenking/storefront/internal/app"
)

// cli carries state shared by every command. The App is built once before
// a command runs and closed by execute, whether the command failed or not.
type cli struct {
	telemetry *app.Telemetry
	root      *cobra.Command

	configFile string
	apiURL     string
	driver     string

	app *appkg.App
}

func newCLI(m *app.Telemetry) *cli {
	c := &cli{telemetry: m}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront terminal client",
		Long:          "Browse products, manage your cart and favorites, place orders and administer the store from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.boot(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.configFile, "config", "", "config file (default: storefront.yaml, then the user config dir)")
	f.StringVar(&c.apiURL, "api-url", "", "override api.base_url")
	f.StringVar(&c.driver, "storage", "", "override storage.driver (file, memory, redis, postgres)")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.productsCmd(),
		c.categoriesCmd(),
		c.cartCmd(),
		c.favoritesCmd(),
		c.checkoutCmd(),
		c.ordersCmd(),
		c.adminCmd(),
		c.doctorCmd(),
	)
	c.root = root
	return c
}

// execute runs the command line and releases the App afterwards. Cobra skips
// post-run hooks when a command fails, so closing happens here.
func (c *cli) execute(ctx context.Context) error {
	err := c.root.ExecuteContext(ctx)
	if c.app != nil {
		if closeErr := c.app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		c.app = nil
	}
	return err
}

func (c *cli) boot(cmd *cobra.Command) error {
	var files []string
	if c.configFile != "" {
		files = []string{c.configFile}
	}
	cfg, err := appkg.LoadConfig(files...)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.API.BaseURL = c.apiURL
	}
	if c.driver != "" {
		cfg.Storage.Driver = c.driver
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := appkg.New(cmd.Context(), cfg, c.telemetry, cmd.OutOrStdout())
	if err != nil {
		return errors.Wrap(err, "start")
	}
	c.app = a
	return nil
}
