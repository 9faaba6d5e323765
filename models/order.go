package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is an open enum. The pipeline order is advisory only and is
// exposed through Rank for UI hints; nothing rejects a backwards move.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCompleted OrderStatus = "completed"
)

var orderStatusRank = map[OrderStatus]int{
	OrderPending:   0,
	OrderPreparing: 1,
	OrderReady:     2,
	OrderDelivered: 3,
	OrderCompleted: 4,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// Rank returns the position of s in the conventional pipeline, or -1.
func (s OrderStatus) Rank() int {
	if r, ok := orderStatusRank[s]; ok {
		return r
	}
	return -1
}

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentMercadoPago PaymentMethod = "mercado_pago"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMercadoPago:
		return true
	}
	return false
}

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	TableID        *uint           `gorm:"index" json:"table_id"`
	Table          *Table          `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	TableNumber    *int            `gorm:"-" json:"table_number,omitempty"`
	TableReference string          `gorm:"type:varchar(255)" json:"table_reference"`
	CustomerName   string          `gorm:"type:varchar(255)" json:"customer_name"`
	Status         OrderStatus     `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMethod  *PaymentMethod  `gorm:"type:varchar(50)" json:"payment_method"`
	Paid           bool            `gorm:"not null;default:false" json:"paid"`
	Details        string          `gorm:"type:text" json:"details"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
}

// SumItems returns Σ quantity × price over items.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
