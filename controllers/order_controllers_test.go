package controllers_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-orders/controllers"
	"github.com/yeremiapane/restaurant-orders/kds"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/services"
)

func setupOrderRouter(t *testing.T) (*gin.Engine, repository.Store, *recordingPublisher) {
	_, store := setupTestDB(t)
	pub := &recordingPublisher{}
	orderCtrl := controllers.NewOrderController(services.NewOrderService(store, pub))

	router := gin.New()
	router.GET("/orders", orderCtrl.GetOrders)
	router.GET("/orders/:id", orderCtrl.GetOrderByID)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.PUT("/orders", orderCtrl.UpdateOrder)
	router.DELETE("/orders", orderCtrl.DeleteOrder)
	return router, store, pub
}

const cartBody = `{
	"customer_name": "Ana",
	"table_id": 3,
	"items": [
		{"product_id": 1, "quantity": 2, "price": "10.99"},
		{"product_id": 7, "quantity": 1, "price": 5.99, "notes": "sin cacao"}
	]
}`

func createOrder(t *testing.T, r *gin.Engine) models.Order {
	t.Helper()
	w := performRequest(r, http.MethodPost, "/orders", cartBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	env := decode(t, w, &order)
	assert.True(t, env.Status)
	return order
}

func TestCreateAndGetOrder(t *testing.T) {
	r, store, pub := setupOrderRouter(t)

	order := createOrder(t, r)
	assert.Equal(t, "27.97", order.TotalAmount.StringFixed(2))
	assert.Equal(t, models.OrderPending, order.Status)
	assert.False(t, order.Paid)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Pizza Margherita", order.Items[0].ProductName)
	require.Len(t, pub.messages, 1)
	assert.Equal(t, kds.EventNewOrder, pub.messages[0].Type)

	table, err := store.FindTable(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, table.Status)

	w := performRequest(r, http.MethodGet, "/orders/"+strconv.Itoa(int(order.ID)), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var got models.Order
	decode(t, w, &got)
	assert.Equal(t, order.ID, got.ID)
	require.NotNil(t, got.TableNumber)
	assert.Equal(t, 3, *got.TableNumber)

	w = performRequest(r, http.MethodGet, "/orders/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = performRequest(r, http.MethodGet, "/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderBadRequests(t *testing.T) {
	r, _, pub := setupOrderRouter(t)

	for _, body := range []string{
		`{"items": []}`,
		`{"items": [{"product_id": 1, "quantity": 0, "price": 1}]}`,
		`{"items": [{"product_id": 999, "quantity": 1, "price": 1}]}`,
		`{"items": [`,
	} {
		w := performRequest(r, http.MethodPost, "/orders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		env := decode(t, w, nil)
		assert.False(t, env.Status)
		assert.NotEmpty(t, env.Message)
	}

	w := performRequest(r, http.MethodPost, "/orders", `{"table_id": 77, "items": [{"product_id": 1, "quantity": 1, "price": 1}]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, pub.messages)
}

func TestUpdateOrderDispatch(t *testing.T) {
	r, store, _ := setupOrderRouter(t)
	order := createOrder(t, r)
	id := int(order.ID)

	w := performRequest(r, http.MethodPut, "/orders", map[string]interface{}{"id": id, "status": "preparing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Order
	decode(t, w, &updated)
	assert.Equal(t, models.OrderPreparing, updated.Status)

	w = performRequest(r, http.MethodPut, "/orders", map[string]interface{}{"id": id, "status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPut, "/orders", map[string]interface{}{
		"id":    id,
		"items": []map[string]interface{}{{"product_id": 6, "quantity": 4, "price": "2.49"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &updated)
	assert.Equal(t, "9.96", updated.TotalAmount.StringFixed(2))
	assert.Equal(t, models.OrderPreparing, updated.Status)

	w = performRequest(r, http.MethodPut, "/orders", map[string]interface{}{"id": id, "payment_method": "cash", "paid": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &updated)
	assert.True(t, updated.Paid)
	assert.Equal(t, models.OrderCompleted, updated.Status)

	table, err := store.FindTable(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, table.Status)

	// frozen once paid
	w = performRequest(r, http.MethodPut, "/orders", map[string]interface{}{"id": id, "status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = performRequest(r, http.MethodPut, "/orders", map[string]interface{}{"id": id, "paid": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPut, "/orders", map[string]interface{}{"status": "ready"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = performRequest(r, http.MethodPut, "/orders", map[string]interface{}{"id": 4242, "status": "ready"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentCompletesOrderMarkedPaid(t *testing.T) {
	r, _, _ := setupOrderRouter(t)
	order := createOrder(t, r)
	id := int(order.ID)

	w := performRequest(r, http.MethodPut, "/orders", map[string]interface{}{"id": id, "paid": true, "status": "ready", "customer_name": "Ana"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Order
	decode(t, w, &updated)
	assert.True(t, updated.Paid)
	assert.Equal(t, models.OrderReady, updated.Status)

	w = performRequest(r, http.MethodPut, "/orders", map[string]interface{}{"id": id, "payment_method": "card"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &updated)
	assert.Equal(t, models.OrderCompleted, updated.Status)
	require.NotNil(t, updated.PaymentMethod)
	assert.Equal(t, models.PaymentCard, *updated.PaymentMethod)

	w = performRequest(r, http.MethodGet, "/orders/"+strconv.Itoa(id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	assert.Equal(t, models.OrderCompleted, updated.Status)
}

func TestDeleteOrders(t *testing.T) {
	r, store, _ := setupOrderRouter(t)
	first := createOrder(t, r)
	createOrder(t, r)

	w := performRequest(r, http.MethodDelete, "/orders?id="+strconv.Itoa(int(first.ID)), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = performRequest(r, http.MethodDelete, "/orders?id="+strconv.Itoa(int(first.ID)), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = performRequest(r, http.MethodDelete, "/orders", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var orders []models.Order
	w = performRequest(r, http.MethodGet, "/orders", nil)
	decode(t, w, &orders)
	assert.Len(t, orders, 1)

	w = performRequest(r, http.MethodDelete, "/orders?all=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodGet, "/orders", nil)
	decode(t, w, &orders)
	assert.Empty(t, orders)

	tables, err := store.ListTables(context.Background(), models.TableOccupied)
	require.NoError(t, err)
	assert.Empty(t, tables)
}
