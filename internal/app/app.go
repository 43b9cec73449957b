// Package app wires configuration, storage and every store into one
// process-wide App.
package app

import (
	"context"
	"io"
	"time"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/api"
	"github.com/xenking/storefront/internal/domain/admin"
	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/favorite"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/storage"
	"github.com/xenking/storefront/internal/storage/file"
	"github.com/xenking/storefront/internal/storage/postgres"
	"github.com/xenking/storefront/internal/storage/redis"
	"github.com/xenking/storefront/internal/ui"
	"github.com/xenking/storefront/pkg/health"
)

// App holds the single instance of every store. It is created once at
// start-up and closed at shutdown.
type App struct {
	Config *Config

	Storage  storage.Store
	Client   *api.Client
	Console  *ui.Console
	Router   *ui.Router
	Reporter *ui.Reporter

	Sessions  *session.Store
	Catalog   *product.Catalog
	Cart      *cart.Store
	Orders    *order.Workflow
	Favorites *favorite.Store
	Dashboard *admin.Dashboard
	Health    *health.Health
}

// New opens storage, restores persisted state and builds every store.
// Telemetry may be nil, in which case the global providers are used.
func New(ctx context.Context, cfg *Config, m *sdkapp.Telemetry, out io.Writer) (*App, error) {
	lg := zctx.From(ctx)
	lg.Debug("Initializing", zap.String("storage", cfg.Storage.Driver), zap.String("api", cfg.API.BaseURL))

	shipping, err := cfg.ShippingCharge()
	if err != nil {
		return nil, err
	}

	kv, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}

	sessions := session.NewStore(kv)
	if err := sessions.Load(ctx); err != nil {
		_ = kv.Close()
		return nil, errors.Wrap(err, "load session")
	}

	opts := []api.Option{
		api.WithTimeout(cfg.API.Timeout),
		api.WithUploadsBaseURL(cfg.Uploads.BaseURL),
	}
	if m != nil {
		opts = append(opts,
			api.WithTracerProvider(m.TracerProvider()),
			api.WithMeterProvider(m.MeterProvider()),
		)
	}
	client, err := api.NewClient(cfg.API.BaseURL, sessions, opts...)
	if err != nil {
		_ = kv.Close()
		return nil, errors.Wrap(err, "create api client")
	}

	console := ui.NewConsole(out)
	router := ui.NewRouter(kv, out)
	reporter := ui.NewReporter(console, router, sessions)

	carts := cart.NewStore(client, sessions, reporter, shipping)
	favorites := favorite.NewStore(kv, sessions, reporter)
	if err := favorites.Load(ctx); err != nil {
		// Unreadable favorites start empty.
		lg.Warn("Load favorites", zap.Error(err))
	}

	hc := health.New()
	hc.Add("storage", 5*time.Second, health.PingCheck(kv))
	hc.Add("api", cfg.API.Timeout, health.HTTPCheck(nil, cfg.API.BaseURL+"/category"))

	return &App{
		Config:    cfg,
		Storage:   kv,
		Client:    client,
		Console:   console,
		Router:    router,
		Reporter:  reporter,
		Sessions:  sessions,
		Catalog:   product.NewCatalog(client, sessions, reporter),
		Cart:      carts,
		Orders:    order.NewWorkflow(client, carts, sessions, reporter, order.WithStrictTransitions(cfg.Orders.StrictTransitions)),
		Favorites: favorites,
		Dashboard: admin.NewDashboard(client, client, sessions, reporter),
		Health:    hc,
	}, nil
}

// OpenStorage opens the driver selected by cfg.Storage.Driver.
func OpenStorage(ctx context.Context, cfg *Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case DriverMemory:
		return storage.NewMemory(), nil
	case DriverFile, "":
		path, err := cfg.StatePath()
		if err != nil {
			return nil, err
		}
		return file.New(path), nil
	case DriverRedis:
		r := cfg.Storage.Redis
		s := redis.New(redis.Options{Addr: r.Addr, Password: r.Password, DB: r.DB, Prefix: r.Prefix})
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, errors.Wrap(err, "ping redis")
		}
		return s, nil
	case DriverPostgres:
		s, err := postgres.Open(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Close releases storage.
func (a *App) Close() error {
	if err := a.Storage.Close(); err != nil {
		return errors.Wrap(err, "close storage")
	}
	return nil
}
