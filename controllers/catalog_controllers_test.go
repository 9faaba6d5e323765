package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-orders/controllers"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/services"
)

func setupCatalogRouter(t *testing.T) *gin.Engine {
	_, store := setupTestDB(t)
	catalog := services.NewCatalogService(store)
	productCtrl := controllers.NewProductController(catalog)
	categoryCtrl := controllers.NewCategoryController(catalog)
	orderCtrl := controllers.NewOrderController(services.NewOrderService(store, &recordingPublisher{}))

	router := gin.New()
	router.GET("/products", productCtrl.GetProducts)
	router.POST("/products", productCtrl.CreateProduct)
	router.PUT("/products", productCtrl.UpdateProduct)
	router.DELETE("/products", productCtrl.DeleteProduct)
	router.GET("/categories", categoryCtrl.GetCategories)
	router.POST("/categories", categoryCtrl.CreateCategory)
	router.POST("/orders", orderCtrl.CreateOrder)
	return router
}

func TestProductCRUD(t *testing.T) {
	r := setupCatalogRouter(t)

	w := performRequest(r, http.MethodPost, "/products", `{"name":"Flan","description":"Casero","price":"4.50","category":"Postres"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Product
	decode(t, w, &created)
	assert.Equal(t, "4.50", created.Price.StringFixed(2))

	w = performRequest(r, http.MethodPut, "/products", map[string]interface{}{
		"id": created.ID, "name": "Flan de huevo", "price": 4.75, "category": "Postres",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var products []models.Product
	decode(t, performRequest(r, http.MethodGet, "/products", nil), &products)
	assert.Len(t, products, 10)

	w = performRequest(r, http.MethodPost, "/products", `{"name":"","price":"4.50","category":"Postres"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = performRequest(r, http.MethodPost, "/products", `{"name":"Gratis","price":0,"category":"Postres"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = performRequest(r, http.MethodPut, "/products", `{"id":999,"name":"x","price":1,"category":"y"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodDelete, "/products?id=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	decode(t, performRequest(r, http.MethodGet, "/products", nil), &products)
	assert.Len(t, products, 9)
	w = performRequest(r, http.MethodDelete, "/products", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteReferencedProductConflicts(t *testing.T) {
	r := setupCatalogRouter(t)

	w := performRequest(r, http.MethodPost, "/orders", `{"items":[{"product_id":2,"quantity":1,"price":12.99}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performRequest(r, http.MethodDelete, "/products?id=2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Contains(t, env.Message, "conflict")
}

func TestCategoryEndpoints(t *testing.T) {
	r := setupCatalogRouter(t)

	var categories []string
	decode(t, performRequest(r, http.MethodGet, "/categories", nil), &categories)
	assert.Len(t, categories, 7)

	w := performRequest(r, http.MethodPost, "/categories", `{"category":"Postres"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var products []models.Product
	decode(t, performRequest(r, http.MethodGet, "/products", nil), &products)
	assert.Len(t, products, 9)

	w = performRequest(r, http.MethodPost, "/categories", `{"category":"Sopas"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	decode(t, performRequest(r, http.MethodGet, "/categories", nil), &categories)
	assert.Contains(t, categories, "Sopas")
}
