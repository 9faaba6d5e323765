package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/utils"
	"gorm.io/gorm"
)

func sampleProducts() []models.Product {
	p := func(name, desc, price, category string) models.Product {
		return models.Product{
			Name:        name,
			Description: desc,
			Price:       decimal.RequireFromString(price),
			Category:    category,
		}
	}
	return []models.Product{
		p("Pizza Margherita", "Tomate, mozzarella y albahaca", "10.99", "Pizzas"),
		p("Pizza Pepperoni", "Tomate, mozzarella y pepperoni", "12.99", "Pizzas"),
		p("Ensalada César", "Lechuga, pollo, crutones y aderezo césar", "8.99", "Ensaladas"),
		p("Pasta Carbonara", "Espaguetis con salsa carbonara", "11.99", "Pastas"),
		p("Agua Mineral", "Botella de 500ml", "1.99", "Bebidas"),
		p("Refresco", "Coca-Cola, Fanta o Sprite", "2.49", "Bebidas"),
		p("Tiramisú", "Postre italiano con café y mascarpone", "5.99", "Postres"),
		p("Hamburguesa Clásica", "Carne, lechuga, tomate y queso", "9.99", "Hamburguesas"),
		p("Patatas Fritas", "Porción grande con salsa", "3.99", "Acompañamientos"),
	}
}

func sampleTables() []models.Table {
	capacities := []int{4, 2, 6, 4, 8, 2}
	tables := make([]models.Table, 0, len(capacities))
	for i, capacity := range capacities {
		tables = append(tables, models.Table{
			Number:   i + 1,
			Capacity: capacity,
			Status:   models.TableAvailable,
		})
	}
	return tables
}

// Seed inserts the sample catalog and floor plan into empty tables only.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count == 0 {
		products := sampleProducts()
		if err := db.Create(&products).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		utils.InfoLogger.Printf("Inserted %d sample products", len(products))
	}

	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count tables: %w", err)
	}
	if count == 0 {
		tables := sampleTables()
		if err := db.Create(&tables).Error; err != nil {
			return fmt.Errorf("seed tables: %w", err)
		}
		utils.InfoLogger.Printf("Inserted %d sample tables", len(tables))
	}
	return nil
}
