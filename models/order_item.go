package models

import "github.com/shopspring/decimal"

// OrderItem keeps the unit price captured when the order was placed, so later
// catalog price changes never touch historic orders.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Notes     string          `gorm:"type:text" json:"notes"`

	ProductName        string `gorm:"-" json:"product_name,omitempty"`
	ProductDescription string `gorm:"-" json:"product_description,omitempty"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
