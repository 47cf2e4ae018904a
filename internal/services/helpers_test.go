package services_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"sklep/internal/models"
	"sklep/internal/payments"
	"sklep/internal/repositories"
	"sklep/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPublicURL = "https://sklep.test"

type fixture struct {
	repo     *repositories.MockProductRepository
	provider *payments.MockProvider
	cache    *services.FilterCache
	sync     *services.SyncService
	products *services.ProductService
}

func newFixture() *fixture {
	f := &fixture{
		repo:     repositories.NewMockProductRepository(),
		provider: payments.NewMockProvider(),
		cache:    services.NewFilterCache(),
	}
	f.sync = services.NewSyncService(f.provider, f.repo, f.cache, testPublicURL)
	f.products = services.NewProductService(f.repo, nil, f.sync, f.cache)
	return f
}

func newProduct(name, price string) *models.Product {
	return &models.Product{
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Status: models.ProductStatusActive,
	}
}

// stored creates the product without running any sync.
func (f *fixture) stored(t *testing.T, p *models.Product) *models.Product {
	t.Helper()
	require.NoError(t, f.products.Save(context.Background(), p, services.SaveOptions{SkipSync: true}))
	return p
}

func (f *fixture) reload(t *testing.T, id uint) *models.Product {
	t.Helper()
	p, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.Tables...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []services.ProductSoldMessage
	err      error
}

func (p *recordingPublisher) PublishProductSold(_ context.Context, msg services.ProductSoldMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return p.err
}

func (p *recordingPublisher) Messages() []services.ProductSoldMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]services.ProductSoldMessage(nil), p.messages...)
}
