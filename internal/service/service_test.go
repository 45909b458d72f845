package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beyzasenay/mini-crm/internal/domain"
	"github.com/beyzasenay/mini-crm/internal/repository"
)

// newTestDB creates an in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, repository.Migrate(db), "failed to migrate test database")
	return db
}

type fixture struct {
	db        *gorm.DB
	matcher   *DuplicateMatcher
	customers *CustomerService
	products  *ProductService
	orders    *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	log := zap.NewNop()

	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	matcher := NewDuplicateMatcher(customerRepo)
	customers := NewCustomerService(customerRepo, matcher, log)
	products := NewProductService(productRepo, log)
	orders := NewOrderService(db, orderRepo, customerRepo, productRepo, products, nil, log)

	return &fixture{
		db:        db,
		matcher:   matcher,
		customers: customers,
		products:  products,
		orders:    orders,
	}
}

func (f *fixture) seedCustomer(t *testing.T, customer domain.Customer) *domain.Customer {
	t.Helper()
	customer.IsActive = true
	require.NoError(t, f.db.Create(&customer).Error)
	return &customer
}

func (f *fixture) seedProduct(t *testing.T, product domain.Product) *domain.Product {
	t.Helper()
	require.NoError(t, f.db.Create(&product).Error)
	return &product
}
