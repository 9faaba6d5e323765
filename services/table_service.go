package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type TableInput struct {
	Number   int                `json:"number"`
	Capacity int                `json:"capacity"`
	Status   models.TableStatus `json:"status"`
}

type TableService struct {
	store repository.Store
}

func NewTableService(store repository.Store) *TableService {
	return &TableService{store: store}
}

// List returns every table, or only those in status when it is not empty.
func (s *TableService) List(ctx context.Context, status models.TableStatus) ([]models.Table, error) {
	if status != "" && !status.Valid() {
		return nil, invalidf("unknown table status %q", status)
	}
	tables, err := s.store.ListTables(ctx, status)
	if err != nil {
		return nil, storeError("list tables", err)
	}
	return tables, nil
}

// UpdateStatus is a manual override from the staff side; it does not look at
// the orders sitting on the table.
func (s *TableService) UpdateStatus(ctx context.Context, id uint, status models.TableStatus) (*models.Table, error) {
	if id == 0 {
		return nil, invalidf("table id is required")
	}
	if !status.Valid() {
		return nil, invalidf("unknown table status %q", status)
	}

	var table *models.Table
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		if table, err = tx.FindTable(ctx, id); err != nil {
			return storeError("table", err)
		}
		if err := tx.SetTableStatus(ctx, id, status); err != nil {
			return storeError("update table status", err)
		}
		table.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"table_id": id, "status": status}).Info("Table status updated")
	return table, nil
}

func (s *TableService) Create(ctx context.Context, in TableInput) (*models.Table, error) {
	if in.Number <= 0 {
		return nil, invalidf("table number must be positive")
	}
	if in.Capacity <= 0 {
		return nil, invalidf("table capacity must be positive")
	}
	if in.Status == "" {
		in.Status = models.TableAvailable
	}
	if !in.Status.Valid() {
		return nil, invalidf("unknown table status %q", in.Status)
	}

	table := &models.Table{Number: in.Number, Capacity: in.Capacity, Status: in.Status}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		n, err := tx.CountTablesByNumber(ctx, in.Number)
		if err != nil {
			return storeError("count tables", err)
		}
		if n > 0 {
			return conflictf("table number %d already exists", in.Number)
		}
		return storeError("create table", tx.CreateTable(ctx, table))
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"table_id": table.ID, "number": table.Number}).Info("Table created")
	return table, nil
}
