package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSiteURL is used for return/cancel links when SITE_URL is not set.
const DefaultSiteURL = "https://milluces.com"

// Config holds environment-driven configuration.
type Config struct {
	AppEnv          string
	Addr            string
	DatabaseURL     string
	DBMaxOpenConns  int
	SiteURL         string
	JWTSecret       string
	TokenTTL        time.Duration
	UploadDir       string
	PublicUploadURL string
	PayPalAPIBase   string
	LogLevel        string
}

// Load reads configuration from a .env file (if any) and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ADDR", ":8080")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("SITE_URL", DefaultSiteURL)
	v.SetDefault("TOKEN_TTL", "72h")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("PUBLIC_UPLOAD_URL", "/uploads")
	v.SetDefault("PAYPAL_API_BASE", "https://api-m.paypal.com")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		AppEnv:          v.GetString("APP_ENV"),
		Addr:            v.GetString("ADDR"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		DBMaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		SiteURL:         strings.TrimRight(v.GetString("SITE_URL"), "/"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		UploadDir:       v.GetString("UPLOAD_DIR"),
		PublicUploadURL: strings.TrimRight(v.GetString("PUBLIC_UPLOAD_URL"), "/"),
		PayPalAPIBase:   strings.TrimRight(v.GetString("PAYPAL_API_BASE"), "/"),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = DefaultSiteURL
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 72 * time.Hour
	}
	return cfg, nil
}

// Validate checks the values needed to talk to the database and sign tokens.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	return nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}
