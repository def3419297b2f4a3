// Package config loads service configuration from the environment,
// once at startup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

type (
	// Config holds all service configuration.
	Config struct {
		AppEnv   string `env:"APP_ENV" envDefault:"development"`
		HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

		LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
		LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

		DatabaseURL string `env:"DATABASE_URL,required"`
		RedisAddr   string `env:"REDIS_ADDR,required"`

		// Comma-separated list of allowed CORS origins.
		CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

		ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

		Catalog CatalogConfig `envPrefix:"CATALOG_"`
		Storage StorageConfig `envPrefix:"STORAGE_"`
		Line    LineConfig    `envPrefix:"LINE_"`
		OTP     OTPConfig     `envPrefix:"OTP_"`
		Resend  ResendConfig  `envPrefix:"RESEND_"`
	}

	// CatalogConfig locates the template catalog and its assets.
	CatalogConfig struct {
		// File is an optional JSON catalog; empty means the built-in
		// default catalog.
		File string `env:"FILE" envDefault:""`
		// TemplateDir holds the backing images, one <id>.jpg each.
		TemplateDir string `env:"TEMPLATE_DIR" envDefault:"./assets/wallpapers"`
		// FontPath is the bundled TTF with Thai glyph coverage.
		FontPath string `env:"FONT_PATH" envDefault:"./assets/fonts/NotoSansThai-Bold.ttf"`
	}

	// StorageConfig selects and configures the object store.
	StorageConfig struct {
		Provider string `env:"PROVIDER" envDefault:"localfs"`

		// localfs
		LocalRoot string `env:"LOCAL_ROOT" envDefault:"./data/objects"`

		// Public HTTPS base under which published objects resolve.
		// Required for localfs; optional for minio (defaults to the
		// endpoint/bucket URL).
		PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:""`

		// minio / s3-compatible
		MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:""`
		MinioAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:""`
		MinioSecretKey string `env:"MINIO_SECRET_KEY" envDefault:""`
		MinioBucket    string `env:"MINIO_BUCKET" envDefault:"wallpapers"`
		MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"true"`
	}

	// LineConfig configures the push-messaging client.
	LineConfig struct {
		ChannelAccessToken string        `env:"CHANNEL_ACCESS_TOKEN" envDefault:""`
		APIBaseURL         string        `env:"API_BASE_URL" envDefault:"https://api.line.me"`
		PushTimeout        time.Duration `env:"PUSH_TIMEOUT" envDefault:"30s"`
	}

	// OTPConfig configures the SMS OTP provider (ThaiBulkSMS contract).
	OTPConfig struct {
		APIKey    string        `env:"API_KEY" envDefault:""`
		APISecret string        `env:"API_SECRET" envDefault:""`
		BaseURL   string        `env:"BASE_URL" envDefault:"https://otp.thaibulksms.com/v2/otp"`
		Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
		// SendsPerWindow limits OTP requests per phone number.
		SendsPerWindow int           `env:"SENDS_PER_WINDOW" envDefault:"3"`
		SendWindow     time.Duration `env:"SEND_WINDOW" envDefault:"10m"`
	}

	// ResendConfig configures the delivery resend queue.
	ResendConfig struct {
		QueueName   string `env:"QUEUE_NAME" envDefault:"linewall:resend"`
		MaxAttempts int    `env:"MAX_ATTEMPTS" envDefault:"3"`
	}
)

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// GetCORSAllowedOrigins parses the comma-separated origins string.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
