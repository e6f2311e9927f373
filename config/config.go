package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Google    GoogleConfig    `yaml:"google"`
	Stripe    StripeConfig    `yaml:"stripe"`
	Jobs      JobsConfig      `yaml:"jobs"`
	Inventory InventoryConfig `yaml:"inventory"`
}

type ServerConfig struct {
	Port       string `yaml:"port"`
	Env        string `yaml:"env"`
	CORSOrigin string `yaml:"cors_origin"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres | sqlite
	URL    string `yaml:"url"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type GoogleConfig struct {
	ClientID         string `yaml:"client_id"`
	ClientSecret     string `yaml:"client_secret"`
	RedirectURL      string `yaml:"redirect_url"`
	FrontendRedirect string `yaml:"frontend_redirect"`
	AllowedDomain    string `yaml:"allowed_domain"`
}

// Enabled reports whether Google sign-in is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	Currency      string `yaml:"currency"`
}

type JobsConfig struct {
	StaleOrderSchedule string        `yaml:"stale_order_schedule"`
	StaleOrderAge      time.Duration `yaml:"stale_order_age"`
}

type InventoryConfig struct {
	LowStockThreshold int `yaml:"low_stock_threshold"`
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "" || c.Server.Env == "development"
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if
// set), then the process environment. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080", Env: "development"},
		Database:  DatabaseConfig{Driver: "postgres"},
		Auth:      AuthConfig{TokenTTL: 24 * time.Hour},
		Stripe:    StripeConfig{Currency: "usd"},
		Jobs:      JobsConfig{StaleOrderSchedule: "@every 15m", StaleOrderAge: 24 * time.Hour},
		Inventory: InventoryConfig{LowStockThreshold: 5},
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Env, "APP_ENV")
	setString(&c.Server.CORSOrigin, "CORS_ORIGIN")

	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.URL, "DB_URL")

	setString(&c.Auth.JWTSecret, "JWT_SECRET")

	setString(&c.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&c.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&c.Google.RedirectURL, "GOOGLE_REDIRECT_URL")
	setString(&c.Google.FrontendRedirect, "GOOGLE_FRONTEND_REDIRECT")
	setString(&c.Google.AllowedDomain, "GOOGLE_ALLOWED_DOMAIN")

	setString(&c.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	setString(&c.Stripe.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
	setString(&c.Stripe.Currency, "STRIPE_CURRENCY")

	setString(&c.Jobs.StaleOrderSchedule, "STALE_ORDER_SCHEDULE")

	if err := setDuration(&c.Auth.TokenTTL, "TOKEN_TTL"); err != nil {
		return err
	}
	if err := setDuration(&c.Jobs.StaleOrderAge, "STALE_ORDER_AGE"); err != nil {
		return err
	}
	if v, ok := lookup("LOW_STOCK_THRESHOLD"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOW_STOCK_THRESHOLD: %w", err)
		}
		c.Inventory.LowStockThreshold = n
	}
	return nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DB_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
