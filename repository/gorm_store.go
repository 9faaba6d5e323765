package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-orders/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ---- orders ----

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (s *GormStore) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (s *GormStore) preloadOrders(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Preload("Table")
}

func (s *GormStore) FindOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.preloadOrders(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	hydrate(&order)
	return &order, nil
}

func (s *GormStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.preloadOrders(ctx).Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		hydrate(&orders[i])
	}
	return orders, nil
}

// hydrate copies the display fields of the preloaded relations onto the order.
func hydrate(order *models.Order) {
	if order.Table != nil {
		number := order.Table.Number
		order.TableNumber = &number
	}
	for i := range order.Items {
		if p := order.Items[i].Product; p != nil {
			order.Items[i].ProductName = p.Name
			order.Items[i].ProductDescription = p.Description
		}
	}
}

func (s *GormStore) UpdateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Model(order).Omit(clause.Associations).
		Select("table_reference", "customer_name", "status", "total_amount",
			"payment_method", "paid", "details", "updated_at").
		Updates(order).Error
}

func (s *GormStore) DeleteOrderItems(ctx context.Context, orderID uint) error {
	return s.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error
}

func (s *GormStore) DeleteOrder(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteAllOrders(ctx context.Context) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := db.Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Order{}).Error
}

func (s *GormStore) CountItemsByProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

// ---- products ----

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Order("category ASC").Order("name ASC").Find(&products).Error
	return products, err
}

func (s *GormStore) FindProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *GormStore) FindProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	found := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *GormStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	return s.db.WithContext(ctx).Model(product).
		Select("name", "description", "price", "category", "image_url", "updated_at").
		Updates(product).Error
}

func (s *GormStore) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (s *GormStore) CountProductsInCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("category = ?", category).Count(&count).Error
	return count, err
}

// ---- tables ----

func (s *GormStore) ListTables(ctx context.Context, status models.TableStatus) ([]models.Table, error) {
	var tables []models.Table
	q := s.db.WithContext(ctx).Order("number ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&tables).Error
	return tables, err
}

func (s *GormStore) FindTable(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := s.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, translate(err)
	}
	return &table, nil
}

func (s *GormStore) CreateTable(ctx context.Context, table *models.Table) error {
	return s.db.WithContext(ctx).Create(table).Error
}

func (s *GormStore) CountTablesByNumber(ctx context.Context, number int) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Table{}).Where("number = ?", number).Count(&count).Error
	return count, err
}

// SetTableStatus is last-write-wins and does not report missing ids; callers
// that need NotFound look the table up first.
func (s *GormStore) SetTableStatus(ctx context.Context, id uint, status models.TableStatus) error {
	return s.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", id).Update("status", status).Error
}

func (s *GormStore) ResetTables(ctx context.Context, status models.TableStatus) error {
	return s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(&models.Table{}).Update("status", status).Error
}

// ---- dashboard ----

func (s *GormStore) SumPaidSales(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("paid = ?", true).
		Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&total)
	return total, err
}

func (s *GormStore) CountPaidCompleted(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ? AND paid = ?", models.OrderCompleted, true).Count(&count).Error
	return count, err
}

func (s *GormStore) CountUnpaid(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).Where("paid = ?", false).Count(&count).Error
	return count, err
}

func (s *GormStore) AveragePaidOrder(ctx context.Context) (decimal.Decimal, error) {
	var avg decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("paid = ?", true).
		Select("COALESCE(AVG(total_amount), 0)").Row().Scan(&avg)
	return avg.Round(2), err
}
