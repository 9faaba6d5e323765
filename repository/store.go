package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-orders/models"
)

// ErrNotFound is returned when a lookup or keyed mutation matches no row.
var ErrNotFound = errors.New("record not found")

type OrderRepository interface {
	// CreateOrder inserts the order row only; items go through CreateOrderItems.
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	DeleteOrderItems(ctx context.Context, orderID uint) error
	DeleteOrder(ctx context.Context, id uint) error
	DeleteAllOrders(ctx context.Context) error
	CountItemsByProduct(ctx context.Context, productID uint) (int64, error)
}

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	FindProduct(ctx context.Context, id uint) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	ListCategories(ctx context.Context) ([]string, error)
	CountProductsInCategory(ctx context.Context, category string) (int64, error)
}

type TableRepository interface {
	// ListTables returns every table when status is empty.
	ListTables(ctx context.Context, status models.TableStatus) ([]models.Table, error)
	FindTable(ctx context.Context, id uint) (*models.Table, error)
	CreateTable(ctx context.Context, table *models.Table) error
	CountTablesByNumber(ctx context.Context, number int) (int64, error)
	SetTableStatus(ctx context.Context, id uint, status models.TableStatus) error
	ResetTables(ctx context.Context, status models.TableStatus) error
}

type DashboardRepository interface {
	SumPaidSales(ctx context.Context) (decimal.Decimal, error)
	CountPaidCompleted(ctx context.Context) (int64, error)
	CountUnpaid(ctx context.Context) (int64, error)
	AveragePaidOrder(ctx context.Context) (decimal.Decimal, error)
}

// Store is the persistence handle injected into the services. Transaction
// runs fn against a Store bound to a single database transaction; returning
// an error from fn rolls every write back.
type Store interface {
	OrderRepository
	ProductRepository
	TableRepository
	DashboardRepository

	Transaction(ctx context.Context, fn func(tx Store) error) error
}
