package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/utils"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	store repository.Store
}

func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Metrics never fails. If any of the aggregates cannot be read, every figure
// is reported as zero rather than a partial picture.
func (s *DashboardService) Metrics(ctx context.Context) models.DashboardMetrics {
	var m models.DashboardMetrics

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		m.TotalSales, err = s.store.SumPaidSales(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.OrdersCompleted, err = s.store.CountPaidCompleted(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.PendingOrders, err = s.store.CountUnpaid(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.AverageOrderValue, err = s.store.AveragePaidOrder(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		utils.ErrorLogger.WithError(err).Error("Failed to compute dashboard metrics")
		return models.DashboardMetrics{TotalSales: decimal.Zero, AverageOrderValue: decimal.Zero}
	}
	return m
}
