package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// Placeholder used to make a new category visible before it has real products.
const (
	placeholderName        = "New Product"
	placeholderDescription = "Product description"
)

// ProductInput is the admin form payload. Price may arrive as a JSON number
// or a numeric string.
type ProductInput struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required,max=100"`
	ImageURL    *string         `json:"image_url"`
}

func (in *ProductInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if in.ImageURL != nil {
		url := strings.TrimSpace(*in.ImageURL)
		if url == "" {
			in.ImageURL = nil
		} else {
			in.ImageURL = &url
		}
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	if !in.Price.IsPositive() {
		return invalidf("price must be greater than zero")
	}
	return nil
}

type CatalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

// ListProducts returns the catalog ordered by category, then name.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, storeError("list products", err)
	}
	return products, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	}
	if err := s.store.CreateProduct(ctx, &product); err != nil {
		return nil, storeError("create product", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"category":   product.Category,
	}).Info("Product created")
	return &product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.ID == 0 {
		return nil, invalidf("product id is required")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	product, err := s.store.FindProduct(ctx, in.ID)
	if err != nil {
		return nil, storeError("product", err)
	}
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price.Round(2)
	product.Category = in.Category
	product.ImageURL = in.ImageURL
	product.UpdatedAt = time.Now()
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, storeError("update product", err)
	}

	utils.InfoLogger.WithField("product_id", product.ID).Info("Product updated")
	return product, nil
}

// DeleteProduct refuses to remove a product that any order still references.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if id == 0 {
		return invalidf("product id is required")
	}
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.FindProduct(ctx, id); err != nil {
			return storeError("product", err)
		}
		n, err := tx.CountItemsByProduct(ctx, id)
		if err != nil {
			return storeError("count order items", err)
		}
		if n > 0 {
			return conflictf("product %d is used by %d order item(s)", id, n)
		}
		if err := tx.DeleteProduct(ctx, id); err != nil {
			return storeError("delete product", err)
		}
		utils.InfoLogger.WithField("product_id", id).Info("Product deleted")
		return nil
	})
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	return categories, nil
}

// CreateCategory registers a category by inserting a zero-priced placeholder
// product carrying it. Categories only exist through their products.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("category name is required")
	}
	if len(name) > 100 {
		return nil, invalidf("category name is too long")
	}

	var placeholder *models.Product
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		n, err := tx.CountProductsInCategory(ctx, name)
		if err != nil {
			return storeError("count category", err)
		}
		if n > 0 {
			return conflictf("category %q already exists", name)
		}
		placeholder = &models.Product{
			Name:        placeholderName,
			Description: placeholderDescription,
			Price:       decimal.Zero,
			Category:    name,
		}
		return storeError("create category", tx.CreateProduct(ctx, placeholder))
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithField("category", name).Info("Category created")
	return placeholder, nil
}
