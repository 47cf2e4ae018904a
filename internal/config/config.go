package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the shop backend.
type Config struct {
	AppPort string
	AppEnv  string

	DatabaseDriver string
	DatabaseDSN    string

	StripeSecretKey     string
	StripeWebhookSecret string
	PublicURL           string
	MediaRoot           string

	AdminJWTSecret string
	RabbitMQURL    string
	SyncSchedule   string

	LogLevel string
	LogFile  string
}

// IsDevelopment reports whether detailed errors may be returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// StripeEnabled reports whether a Stripe secret key is configured.
func (c *Config) StripeEnabled() bool {
	return c.StripeSecretKey != ""
}

// Load reads the configuration from the environment, after loading a .env file
// from the working directory when there is one.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "sklep.db")
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	v.SetDefault("PUBLIC_URL", "http://localhost:8080")
	v.SetDefault("MEDIA_ROOT", "media")
	v.SetDefault("ADMIN_JWT_SECRET", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("SYNC_SCHEDULE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.AutomaticEnv()

	port := v.GetString("APP_PORT")
	if port != "" && !strings.Contains(port, ":") {
		port = ":" + port
	}

	return &Config{
		AppPort:             port,
		AppEnv:              v.GetString("APP_ENV"),
		DatabaseDriver:      v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:         v.GetString("DATABASE_DSN"),
		StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		PublicURL:           strings.TrimRight(v.GetString("PUBLIC_URL"), "/"),
		MediaRoot:           v.GetString("MEDIA_ROOT"),
		AdminJWTSecret:      v.GetString("ADMIN_JWT_SECRET"),
		RabbitMQURL:         v.GetString("RABBITMQ_URL"),
		SyncSchedule:        v.GetString("SYNC_SCHEDULE"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFile:             v.GetString("LOG_FILE"),
	}
}
