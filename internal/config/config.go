package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"storefront_backend/internal/models"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Env             string `yaml:"env"`
		ReadTimeout     int    `yaml:"read_timeout"`     // seconds
		WriteTimeout    int    `yaml:"write_timeout"`    // seconds
		ShutdownTimeout int    `yaml:"shutdown_timeout"` // seconds
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // mongo, postgres, mysql, memory
		DSN    string `yaml:"url"`
		Name   string `yaml:"name"` // mongo database name
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Cookie struct {
		ExpireDays int `yaml:"expire_days"`
	} `yaml:"cookie"`

	Email struct {
		Provider      string `yaml:"provider"` // smtp, log
		SMTPHost      string `yaml:"smtp_host"`
		SMTPPort      int    `yaml:"smtp_port"`
		SMTPUsername  string `yaml:"smtp_user"`
		SMTPPassword  string `yaml:"smtp_password"`
		FromEmail     string `yaml:"from_email"`
		FromName      string `yaml:"from_name"`
		UseTLS        bool   `yaml:"use_tls"`
		TemplatesDir  string `yaml:"templates_dir"`
		ResetTokenTTL int    `yaml:"reset_token_ttl"` // minutes
	} `yaml:"email"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		AccountID  string `yaml:"account_id"`  // For R2
		UseSSL     bool   `yaml:"use_ssl"`     // For S3/R2
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		MaxImages    int      `yaml:"max_images"`    // Per product
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
		ImageQuality int      `yaml:"image_quality"` // JPEG quality (1-100)
		MaxDimension int      `yaml:"max_dimension"` // Longest side in pixels
	} `yaml:"upload"`

	Payment struct {
		Provider string `yaml:"provider"` // stripe, midtrans, robokassa, sandbox
		Currency string `yaml:"currency"`
		Stripe   struct {
			SecretKey     string `yaml:"secret_key"`
			PublicKey     string `yaml:"public_key"`
			DefaultSource string `yaml:"default_source"`
		} `yaml:"stripe"`
		Midtrans struct {
			ServerKey  string `yaml:"server_key"`
			ClientKey  string `yaml:"client_key"`
			Production bool   `yaml:"production"`
		} `yaml:"midtrans"`
		Robokassa struct {
			MerchantLogin string `yaml:"merchant_login"`
			Password1     string `yaml:"password1"`
			Password2     string `yaml:"password2"`
			IsTest        bool   `yaml:"is_test"`
			BaseURL       string `yaml:"base_url"`
		} `yaml:"robokassa"`
	} `yaml:"payment"`

	Order struct {
		TaxRate               string `yaml:"tax_rate"`
		FreeShippingThreshold string `yaml:"free_shipping_threshold"`
		ShippingFee           string `yaml:"shipping_fee"`
	} `yaml:"order"`

	Subscription struct {
		ExpirySchedule string       `yaml:"expiry_schedule"` // cron spec
		Plans          []PlanConfig `yaml:"plans"`
	} `yaml:"subscription"`

	Admin struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	FrontendURL string `yaml:"frontend_url"`
}

type PlanConfig struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Price        string `yaml:"price"`
	DurationDays int    `yaml:"duration_days"`
}

// LoadConfig reads .env, the YAML file at CONFIG_PATH (config/config.yaml by default)
// and the environment, in that order. A missing YAML file leaves the defaults in place.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(os.Getenv("CONFIG_PATH"))
}

// LoadConfigFrom is LoadConfig with an explicit YAML path.
func LoadConfigFrom(configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Default returns a configuration that runs locally without external services.
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 4000
	cfg.Server.Env = "development"
	cfg.Server.ReadTimeout = 15
	cfg.Server.WriteTimeout = 30
	cfg.Server.ShutdownTimeout = 10

	cfg.Database.Driver = "mongo"
	cfg.Database.DSN = "mongodb://localhost:27017"
	cfg.Database.Name = "storefront"

	cfg.JWT.TTL = 60 * 24 * 5
	cfg.Cookie.ExpireDays = 90

	cfg.Email.Provider = "log"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Storefront"
	cfg.Email.FromEmail = "no-reply@storefront.local"
	cfg.Email.ResetTokenTTL = 15

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/files"

	cfg.Upload.MaxSize = 5 * 1024 * 1024
	cfg.Upload.MaxImages = 10
	cfg.Upload.AllowedTypes = []string{"image/png", "image/jpg", "image/jpeg"}
	cfg.Upload.ImageQuality = 85
	cfg.Upload.MaxDimension = 1600

	cfg.Payment.Provider = "sandbox"
	cfg.Payment.Currency = "usd"

	cfg.Order.TaxRate = "0.18"
	cfg.Order.FreeShippingThreshold = "200"
	cfg.Order.ShippingFee = "25"

	cfg.Subscription.ExpirySchedule = "@every 1h"
	cfg.Subscription.Plans = []PlanConfig{
		{ID: "plus_monthly", Name: "Plus Monthly", Price: "9.99", DurationDays: 30},
		{ID: "plus_yearly", Name: "Plus Yearly", Price: "99.99", DurationDays: 365},
	}

	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.FrontendURL = "http://localhost:3000"

	return &cfg
}

func (c *Config) applyEnv() {
	setString(&c.Database.DSN, "DATABASE_URL")
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Server.Env, "SERVER_ENV")
	if port, err := strconv.Atoi(os.Getenv("SERVER_PORT")); err == nil {
		c.Server.Port = port
	}
	setString(&c.JWT.Secret, "JWT_SECRET")

	setString(&c.Storage.AccessKey, "AWS_ACCESS_KEY_ID")
	setString(&c.Storage.SecretKey, "AWS_SECRET_ACCESS_KEY")
	setString(&c.Storage.Region, "AWS_BUCKET_REGION")
	setString(&c.Storage.Bucket, "AWS_BUCKET_NAME")

	setString(&c.Payment.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	setString(&c.Payment.Stripe.PublicKey, "STRIPE_API_KEY")
	setString(&c.Payment.Midtrans.ServerKey, "MIDTRANS_SERVER_KEY")
	setString(&c.Payment.Midtrans.ClientKey, "MIDTRANS_CLIENT_KEY")

	setString(&c.Email.SMTPHost, "SMTP_HOST")
	if port, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		c.Email.SMTPPort = port
	}
	setString(&c.Email.SMTPUsername, "SMTP_USER")
	setString(&c.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.Email.FromEmail, "SMTP_FROM_EMAIL")

	setString(&c.Admin.Email, "ADMIN_EMAIL")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")

	setString(&c.FrontendURL, "FRONTEND_URL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// ServesLocalFiles reports whether uploads live on local disk and need the /files route.
func (c *Config) ServesLocalFiles() bool {
	t := strings.ToLower(c.Storage.Type)
	return t == "" || t == "local"
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Env, "development")
}

// Validate rejects configurations that cannot serve traffic.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	if c.IsProduction() && c.Payment.Provider == "sandbox" {
		return errors.New("sandbox payment provider is not allowed in production")
	}
	if _, err := c.OrderPricing(); err != nil {
		return err
	}
	if _, err := c.Plans(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) CookieTTL() time.Duration {
	return time.Duration(c.Cookie.ExpireDays) * 24 * time.Hour
}

func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.Email.ResetTokenTTL) * time.Minute
}

// OrderPricing holds the checkout constants parsed from the order section.
type OrderPricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

func (c *Config) OrderPricing() (OrderPricing, error) {
	var (
		p   OrderPricing
		err error
	)
	if p.TaxRate, err = decimal.NewFromString(c.Order.TaxRate); err != nil {
		return p, fmt.Errorf("order.tax_rate: %w", err)
	}
	if p.FreeShippingThreshold, err = decimal.NewFromString(c.Order.FreeShippingThreshold); err != nil {
		return p, fmt.Errorf("order.free_shipping_threshold: %w", err)
	}
	if p.ShippingFee, err = decimal.NewFromString(c.Order.ShippingFee); err != nil {
		return p, fmt.Errorf("order.shipping_fee: %w", err)
	}
	return p, nil
}

// Plans converts the configured subscription tiers into models.
func (c *Config) Plans() ([]models.SubscriptionPlan, error) {
	plans := make([]models.SubscriptionPlan, 0, len(c.Subscription.Plans))
	for _, pc := range c.Subscription.Plans {
		price, err := decimal.NewFromString(pc.Price)
		if err != nil {
			return nil, fmt.Errorf("subscription plan %s: invalid price: %w", pc.ID, err)
		}
		if pc.DurationDays <= 0 {
			return nil, fmt.Errorf("subscription plan %s: duration_days must be positive", pc.ID)
		}
		plans = append(plans, models.SubscriptionPlan{
			ID:           pc.ID,
			Name:         pc.Name,
			Price:        price,
			DurationDays: pc.DurationDays,
		})
	}
	return plans, nil
}
