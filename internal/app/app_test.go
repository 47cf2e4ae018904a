package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"sklep/internal/app"
	"sklep/internal/config"
	"sklep/internal/models"
	"sklep/internal/payments"
	"sklep/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig(t *testing.T) *config.Config {
	mediaRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(mediaRoot, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mediaRoot, "images", "kolczyki.jpg"), []byte("jpeg"), 0o644))

	return &config.Config{
		AppPort:        ":0",
		AppEnv:         "development",
		DatabaseDriver: "sqlite",
		DatabaseDSN:    "file:" + t.Name() + "?mode=memory&cache=shared",
		PublicURL:      "https://sklep.test",
		MediaRoot:      mediaRoot,
		SyncSchedule:   "@every 1h",
	}
}

func openDB(t *testing.T, cfg *config.Config) *gorm.DB {
	db, err := app.OpenDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, app.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestOpenDatabase_UnsupportedDriver(t *testing.T) {
	_, err := app.OpenDatabase(&config.Config{DatabaseDriver: "oracle"})
	assert.EqualError(t, err, `unsupported DATABASE_DRIVER "oracle"`)
}

func TestNew_ServesRoutes(t *testing.T) {
	cfg := testConfig(t)
	a, err := app.New(cfg, openDB(t, cfg), app.Options{Provider: payments.NewMockProvider()})
	require.NoError(t, err)
	defer a.Close()

	tests := []struct {
		path   string
		method string
		status int
	}{
		{"/health", http.MethodGet, http.StatusOK},
		{"/api/v1/products/", http.MethodGet, http.StatusOK},
		{"/api/products", http.MethodGet, http.StatusOK},
		{"/api/events/", http.MethodGet, http.StatusOK},
		{"/api/images/", http.MethodGet, http.StatusOK},
		{"/api/product-filters/", http.MethodGet, http.StatusOK},
		{"/media/images/kolczyki.jpg", http.MethodGet, http.StatusOK},
		{"/api/webhooks/stripe/", http.MethodPost, http.StatusBadRequest},
		// no ADMIN_JWT_SECRET configured
		{"/api/admin/images", http.MethodPost, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		resp, err := a.Fiber().Test(httptest.NewRequest(tt.method, tt.path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
	}
}

func TestNew_WebhookWithoutSecret(t *testing.T) {
	cfg := testConfig(t)
	a, err := app.New(cfg, openDB(t, cfg), app.Options{})
	require.NoError(t, err)
	defer a.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe/", nil)
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	resp, err := a.Fiber().Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, a.Sync().Enabled())
}

func TestSchedSyncTask(t *testing.T) {
	cfg := testConfig(t)
	db := openDB(t, cfg)
	provider := payments.NewMockProvider()
	a, err := app.New(cfg, db, app.Options{Provider: provider})
	require.NoError(t, err)
	require.NoError(t, a.Start())
	defer a.Close()

	repo := repositories.NewGORMProductRepository(db)
	p := &models.Product{Name: "Kolczyki", Slug: "kolczyki", Price: decimal.RequireFromString("120"), Status: models.ProductStatusActive, Active: true}
	require.NoError(t, repo.Create(context.Background(), p))

	a.SchedSyncTask()

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsBuyable())
	assert.Equal(t, 1, provider.CountCalls("CreatePrice"))
}
