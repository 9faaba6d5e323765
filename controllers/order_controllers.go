package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// updateOrderRequest is the PUT /orders body. Absent fields keep their value.
type updateOrderRequest struct {
	ID uint `json:"id"`
	services.OrderPatch
}

// paymentOnly reports whether the body just records a payment, the way the
// order board sends it.
func (r updateOrderRequest) paymentOnly() bool {
	p := r.OrderPatch
	if p.PaymentMethod == nil || (p.Paid != nil && !*p.Paid) {
		return false
	}
	if p.Status != nil && *p.Status != models.OrderCompleted {
		return false
	}
	return p.Items == nil && p.CustomerName == nil && p.TableReference == nil && p.Details == nil
}

func (r updateOrderRequest) statusOnly() bool {
	p := r.OrderPatch
	return p.Status != nil && p.PaymentMethod == nil && p.Paid == nil && p.Items == nil &&
		p.CustomerName == nil && p.TableReference == nil && p.Details == nil
}

// GetOrders -> semua order, terbaru dulu
func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context())
	if err != nil {
		respondListError(c, err, []models.Order{})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := parseID(c.Param("id"), "order id")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CreateOrder -> dipanggil dari cart
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var draft services.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondServiceError(c, bindError(err))
		return
	}

	order, err := oc.Orders.Create(c.Request.Context(), draft)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created successfully", order)
}

// UpdateOrder handles status changes, payments and full edits on one route.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondServiceError(c, bindError(err))
		return
	}
	if req.ID == 0 {
		respondServiceError(c, bindError(errMissingID))
		return
	}

	ctx := c.Request.Context()
	var (
		order   *models.Order
		err     error
		message string
	)
	switch {
	case req.paymentOnly():
		order, err = oc.Orders.ProcessPayment(ctx, req.ID, *req.PaymentMethod)
		message = "Payment recorded"
	case req.statusOnly():
		order, err = oc.Orders.UpdateStatus(ctx, req.ID, *req.Status)
		message = "Order status updated"
	default:
		order, err = oc.Orders.UpdateOrder(ctx, req.ID, req.OrderPatch)
		message = "Order updated"
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, order)
}

// DeleteOrder removes one order (?id=) or, with ?all=true, every order.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("all") == "true" {
		if err := oc.Orders.DeleteAll(ctx); err != nil {
			respondServiceError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "All orders deleted successfully", nil)
		return
	}

	id, err := parseID(c.Query("id"), "order id")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := oc.Orders.Delete(ctx, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted successfully", nil)
}
