package models

import "github.com/shopspring/decimal"

type DashboardMetrics struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	OrdersCompleted   int64           `json:"orders_completed"`
	PendingOrders     int64           `json:"pending_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}
