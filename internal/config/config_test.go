package config_test

import (
	"testing"

	"sklep/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	// empty values count as unset
	t.Setenv("APP_PORT", "")
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.False(t, cfg.StripeEnabled())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "3000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("PUBLIC_URL", "https://sklep.example.com/")

	cfg := config.Load()

	assert.Equal(t, ":3000", cfg.AppPort)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.StripeEnabled())
	assert.Equal(t, "https://sklep.example.com", cfg.PublicURL)
}
