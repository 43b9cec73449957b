package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config holds the complete client configuration, loadable from environment
// variables (STOREFRONT_ prefix), a .env file, or YAML config files. Flags are
// owned by the command line and applied on top.
type Config struct {
	API      APIConfig     `yaml:"api" env:"API"`
	Uploads  UploadsConfig `yaml:"uploads" env:"UPLOADS"`
	Shipping string        `default:"50" yaml:"shipping" env:"SHIPPING" usage:"Flat shipping charge added to every cart"`
	Storage  StorageConfig `yaml:"storage" env:"STORAGE"`
	Orders   OrdersConfig  `yaml:"orders" env:"ORDERS"`
}

// APIConfig locates the storefront API.
type APIConfig struct {
	BaseURL string        `default:"http://localhost:3000/api" yaml:"base_url" env:"BASE_URL" usage:"Storefront API base URL"`
	Timeout time.Duration `default:"30s" yaml:"timeout" env:"TIMEOUT" usage:"Per-request timeout"`
}

// UploadsConfig locates uploaded images and payment proofs.
type UploadsConfig struct {
	BaseURL string `default:"" yaml:"base_url" env:"BASE_URL" usage:"Base URL prepended to relative upload paths"`
}

// StorageConfig selects where device-local state lives.
type StorageConfig struct {
	Driver      string      `default:"file" yaml:"driver" env:"DRIVER" usage:"file, memory, redis or postgres"`
	Path        string      `default:"" yaml:"path" env:"PATH" usage:"State file for the file driver (default: user config dir)"`
	Redis       RedisConfig `yaml:"redis" env:"REDIS"`
	PostgresURL string      `default:"" yaml:"postgres_url" env:"POSTGRES_URL" usage:"PostgreSQL connection URL for the postgres driver"`
}

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr     string `default:"localhost:6379" yaml:"addr" env:"ADDR"`
	Password string `default:"" yaml:"password" env:"PASSWORD"`
	DB       int    `default:"0" yaml:"db" env:"DB"`
	Prefix   string `default:"storefront:" yaml:"prefix" env:"PREFIX"`
}

// OrdersConfig controls order management.
type OrdersConfig struct {
	StrictTransitions bool `default:"false" yaml:"strict_transitions" env:"STRICT_TRANSITIONS" usage:"Reject status changes outside the status graph"`
}

// DefaultFiles returns the config files tried when none is given: the
// working directory first, then the user config directory.
func DefaultFiles() []string {
	files := []string{"storefront.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, "storefront", "config.yaml"))
	}
	return files
}

// LoadConfig loads configuration from the environment and the first YAML
// file found in files (DefaultFiles when empty). A .env file in the working
// directory is read first; variables already set take precedence over it.
func LoadConfig(files ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}
	if len(files) == 0 {
		files = DefaultFiles()
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:        true,
		EnvPrefix:        "STOREFRONT",
		AllowUnknownEnvs: true, // STOREFRONT_PASSWORD belongs to the login command
		Files:            files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
			".yml":  aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that the loader cannot.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base url is required: set STOREFRONT_API_BASE_URL")
	}
	if _, err := c.ShippingCharge(); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case DriverFile, DriverMemory, DriverRedis:
	case DriverPostgres:
		if c.Storage.PostgresURL == "" {
			return errors.New("postgres storage requires STOREFRONT_STORAGE_POSTGRES_URL")
		}
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// ShippingCharge parses the shipping charge.
func (c *Config) ShippingCharge() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Shipping)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse shipping %q", c.Shipping)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.Errorf("shipping %s must not be negative", d)
	}
	return d, nil
}

// StatePath returns the file driver path, defaulting to the user config dir.
func (c *Config) StatePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate user config dir")
	}
	return filepath.Join(dir, "storefront", "state.json"), nil
}
