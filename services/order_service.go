package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-orders/kds"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type OrderItemDraft struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	Price     decimal.Decimal `json:"price"`
	Notes     string          `json:"notes" validate:"max=1000"`
}

// OrderDraft is what the cart submits. Prices are the catalog prices the
// customer saw at cart time and are taken as-is.
type OrderDraft struct {
	CustomerName   string           `json:"customer_name" validate:"max=255"`
	TableReference string           `json:"table_reference" validate:"max=255"`
	TableID        *uint            `json:"table_id"`
	Details        string           `json:"details"`
	Items          []OrderItemDraft `json:"items" validate:"required,min=1,dive"`
}

// OrderPatch carries a staff edit. Nil fields keep their stored value; a
// non-nil Items replaces the whole item set.
type OrderPatch struct {
	Status         *models.OrderStatus   `json:"status"`
	PaymentMethod  *models.PaymentMethod `json:"payment_method"`
	Paid           *bool                 `json:"paid"`
	CustomerName   *string               `json:"customer_name" validate:"omitempty,max=255"`
	TableReference *string               `json:"table_reference" validate:"omitempty,max=255"`
	Details        *string               `json:"details"`
	Items          []OrderItemDraft      `json:"items" validate:"omitempty,dive"`
}

// OrderService owns every write to orders and order items and the table
// occupancy side effects that go with them.
type OrderService struct {
	store     repository.Store
	publisher kds.Publisher
	now       func() time.Time
}

func NewOrderService(store repository.Store, publisher kds.Publisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

func validateItems(items []OrderItemDraft) error {
	for i, item := range items {
		if item.Price.IsNegative() {
			return invalidf("items[%d].price must not be negative", i)
		}
	}
	return nil
}

// buildItems resolves the products referenced by drafts and returns the rows
// to insert for orderID, with display metadata attached.
func buildItems(ctx context.Context, store repository.Store, orderID uint, drafts []OrderItemDraft) ([]models.OrderItem, error) {
	ids := make([]uint, 0, len(drafts))
	for _, d := range drafts {
		ids = append(ids, d.ProductID)
	}
	products, err := store.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(drafts))
	for _, d := range drafts {
		p, ok := products[d.ProductID]
		if !ok {
			return nil, invalidf("product %d does not exist", d.ProductID)
		}
		items = append(items, models.OrderItem{
			OrderID:            orderID,
			ProductID:          d.ProductID,
			Quantity:           d.Quantity,
			Price:              d.Price.Round(2),
			Notes:              d.Notes,
			ProductName:        p.Name,
			ProductDescription: p.Description,
		})
	}
	return items, nil
}

// Create persists a pending order with its items, occupies the table and
// announces the order to connected viewers once the transaction commits.
func (s *OrderService) Create(ctx context.Context, draft OrderDraft) (*models.Order, error) {
	draft.CustomerName = strings.TrimSpace(draft.CustomerName)
	draft.TableReference = strings.TrimSpace(draft.TableReference)
	if draft.TableID != nil && *draft.TableID == 0 {
		draft.TableID = nil
	}
	if err := validateStruct(draft); err != nil {
		return nil, err
	}
	if err := validateItems(draft.Items); err != nil {
		return nil, err
	}

	var created *models.Order
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		// occupy the table before inserting the order; the FK check on that
		// insert share-locks the table row and must not be upgraded later
		if draft.TableID != nil {
			if _, err := tx.FindTable(ctx, *draft.TableID); err != nil {
				return storeError("find table", err)
			}
			if err := tx.SetTableStatus(ctx, *draft.TableID, models.TableOccupied); err != nil {
				return storeError("occupy table", err)
			}
		}

		now := s.now()
		order := models.Order{
			TableID:        draft.TableID,
			TableReference: draft.TableReference,
			CustomerName:   draft.CustomerName,
			Status:         models.OrderPending,
			Paid:           false,
			Details:        draft.Details,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		// order id is not known yet, items are re-keyed after insert
		items, err := buildItems(ctx, tx, 0, draft.Items)
		if err != nil {
			return storeError("resolve products", err)
		}
		order.TotalAmount = models.SumItems(items)

		if err := tx.CreateOrder(ctx, &order); err != nil {
			return storeError("insert order", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.CreateOrderItems(ctx, items); err != nil {
			return storeError("insert order items", err)
		}

		created, err = tx.FindOrder(ctx, order.ID)
		return storeError("load order", err)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(kds.Message{Type: kds.EventNewOrder, Data: created})

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": created.ID,
		"table_id": created.TableID,
		"items":    len(created.Items),
		"total":    created.TotalAmount.StringFixed(2),
	}).Info("Order created")
	return created, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, storeError("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	if id == 0 {
		return nil, invalidf("order id is required")
	}
	order, err := s.store.FindOrder(ctx, id)
	if err != nil {
		return nil, storeError("order", err)
	}
	return order, nil
}

// UpdateStatus overwrites the status of an unpaid order. Any status may
// follow any other; a paid order keeps its terminal status.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if id == 0 {
		return nil, invalidf("order id is required")
	}
	if !status.Valid() {
		return nil, invalidf("unknown order status %q", status)
	}

	var updated *models.Order
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.FindOrder(ctx, id)
		if err != nil {
			return storeError("order", err)
		}
		if order.Paid && order.Status != status {
			return conflictf("order %d is already paid", id)
		}

		order.Status = status
		order.UpdatedAt = s.now()
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return storeError("update order status", err)
		}
		updated, err = tx.FindOrder(ctx, id)
		return storeError("load order", err)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"order_id": id, "status": status}).Info("Order status updated")
	return updated, nil
}

// ProcessPayment marks the order paid and completed and frees its table.
// Paying an already paid order again re-asserts the completed state and
// fills in a missing method; a different recorded method is a conflict.
func (s *OrderService) ProcessPayment(ctx context.Context, id uint, method models.PaymentMethod) (*models.Order, error) {
	if id == 0 {
		return nil, invalidf("order id is required")
	}
	if !method.Valid() {
		return nil, invalidf("unknown payment method %q", method)
	}

	var paid *models.Order
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.FindOrder(ctx, id)
		if err != nil {
			return storeError("order", err)
		}
		if order.Paid {
			if order.PaymentMethod != nil && *order.PaymentMethod != method {
				return conflictf("order %d is already paid by %s", id, *order.PaymentMethod)
			}
			if order.Status == models.OrderCompleted && order.PaymentMethod != nil {
				paid = order
				return nil
			}
			// paid through a plain edit; settle it without touching the table,
			// which may already seat someone else
			order.Status = models.OrderCompleted
			order.PaymentMethod = &method
			order.UpdatedAt = s.now()
			if err := tx.UpdateOrder(ctx, order); err != nil {
				return storeError("record payment", err)
			}
			paid, err = tx.FindOrder(ctx, id)
			return storeError("load order", err)
		}

		order.Paid = true
		order.Status = models.OrderCompleted
		order.PaymentMethod = &method
		order.UpdatedAt = s.now()
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return storeError("record payment", err)
		}
		if order.TableID != nil {
			if err := tx.SetTableStatus(ctx, *order.TableID, models.TableAvailable); err != nil {
				return storeError("release table", err)
			}
		}
		paid, err = tx.FindOrder(ctx, id)
		return storeError("load order", err)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"order_id": id, "method": method}).Info("Order paid")
	return paid, nil
}

// UpdateOrder applies a staff edit. When items are supplied the stored set is
// replaced wholesale and the total recomputed from it.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, patch OrderPatch) (*models.Order, error) {
	if id == 0 {
		return nil, invalidf("order id is required")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalidf("unknown order status %q", *patch.Status)
	}
	if patch.PaymentMethod != nil && !patch.PaymentMethod.Valid() {
		return nil, invalidf("unknown payment method %q", *patch.PaymentMethod)
	}
	if patch.Items != nil && len(patch.Items) == 0 {
		return nil, invalidf("an order needs at least one item")
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	if err := validateItems(patch.Items); err != nil {
		return nil, err
	}

	var updated *models.Order
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.FindOrder(ctx, id)
		if err != nil {
			return storeError("order", err)
		}
		wasPaid := order.Paid

		if wasPaid {
			if patch.Paid != nil && !*patch.Paid {
				return conflictf("order %d is already paid", id)
			}
			if patch.Status != nil && *patch.Status != order.Status {
				return conflictf("order %d is already paid, status is frozen", id)
			}
			if patch.PaymentMethod != nil && (order.PaymentMethod == nil || *order.PaymentMethod != *patch.PaymentMethod) {
				return conflictf("order %d is already paid, payment method is frozen", id)
			}
		}

		if patch.Paid != nil && *patch.Paid {
			order.Paid = true
		}
		if patch.PaymentMethod != nil {
			if !order.Paid {
				return invalidf("payment method is recorded when the order is paid")
			}
			method := *patch.PaymentMethod
			order.PaymentMethod = &method
		}
		if patch.Status != nil {
			order.Status = *patch.Status
		} else if order.Paid && !wasPaid {
			order.Status = models.OrderCompleted
		}
		if patch.CustomerName != nil {
			order.CustomerName = strings.TrimSpace(*patch.CustomerName)
		}
		if patch.TableReference != nil {
			order.TableReference = strings.TrimSpace(*patch.TableReference)
		}
		if patch.Details != nil {
			order.Details = *patch.Details
		}

		if patch.Items != nil {
			items, err := buildItems(ctx, tx, order.ID, patch.Items)
			if err != nil {
				return storeError("resolve products", err)
			}
			if err := tx.DeleteOrderItems(ctx, order.ID); err != nil {
				return storeError("delete order items", err)
			}
			if err := tx.CreateOrderItems(ctx, items); err != nil {
				return storeError("insert order items", err)
			}
			order.TotalAmount = models.SumItems(items)
		}

		order.UpdatedAt = s.now()
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return storeError("update order", err)
		}

		if order.Paid && !wasPaid && order.TableID != nil {
			if err := tx.SetTableStatus(ctx, *order.TableID, models.TableAvailable); err != nil {
				return storeError("release table", err)
			}
		}

		updated, err = tx.FindOrder(ctx, id)
		return storeError("load order", err)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": id,
		"paid":     updated.Paid,
		"items":    len(updated.Items),
	}).Info("Order updated")
	return updated, nil
}

// Delete removes the order and its items and frees its table.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return invalidf("order id is required")
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.FindOrder(ctx, id)
		if err != nil {
			return storeError("order", err)
		}
		if err := tx.DeleteOrderItems(ctx, id); err != nil {
			return storeError("delete order items", err)
		}
		if err := tx.DeleteOrder(ctx, id); err != nil {
			return storeError("delete order", err)
		}
		if order.TableID != nil {
			if err := tx.SetTableStatus(ctx, *order.TableID, models.TableAvailable); err != nil {
				return storeError("release table", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.WithField("order_id", id).Info("Order deleted")
	return nil
}

// DeleteAll wipes every order and item and frees every table. It is an
// administrative reset, not part of the normal flow.
func (s *OrderService) DeleteAll(ctx context.Context) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.DeleteAllOrders(ctx); err != nil {
			return storeError("delete all orders", err)
		}
		if err := tx.ResetTables(ctx, models.TableAvailable); err != nil {
			return storeError("reset tables", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Warn("All orders deleted, tables reset")
	return nil
}
