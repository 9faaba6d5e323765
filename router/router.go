package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-orders/config"
	"github.com/yeremiapane/restaurant-orders/controllers"
	"github.com/yeremiapane/restaurant-orders/kds"
	"github.com/yeremiapane/restaurant-orders/middlewares"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/services"
)

// Deps is everything the routes need, built once at startup.
type Deps struct {
	Store repository.Store
	Hub   *kds.Hub
	// Publisher receives new-order events. Defaults to Hub.
	Publisher kds.Publisher
	Server    config.ServerConfig
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	publisher := deps.Publisher
	if publisher == nil {
		publisher = deps.Hub
	}

	orderSvc := services.NewOrderService(deps.Store, publisher)
	catalogSvc := services.NewCatalogService(deps.Store)
	tableSvc := services.NewTableService(deps.Store)
	dashboardSvc := services.NewDashboardService(deps.Store)

	// Apply middlewares
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.Server.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if deps.Server.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(deps.Server.RateLimitRPS, deps.Server.RateLimitBurst).RateLimit())
	}

	// Inisialisasi controller
	orderCtrl := controllers.NewOrderController(orderSvc)
	productCtrl := controllers.NewProductController(catalogSvc)
	categoryCtrl := controllers.NewCategoryController(catalogSvc)
	tableCtrl := controllers.NewTableController(tableSvc)
	dashboardCtrl := controllers.NewDashboardController(dashboardSvc)
	notificationCtrl := controllers.NewNotificationController(deps.Hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Order board feed, long-lived so no request timeout
	r.GET("/ws/orders", notificationCtrl.OrdersFeed)

	api := r.Group("/")
	api.Use(middlewares.Timeout(deps.Server.RequestTimeout))
	{
		// Catalog
		api.GET("/products", productCtrl.GetProducts)
		api.POST("/products", productCtrl.CreateProduct)
		api.PUT("/products", productCtrl.UpdateProduct)
		api.DELETE("/products", productCtrl.DeleteProduct)

		api.GET("/categories", categoryCtrl.GetCategories)
		api.POST("/categories", categoryCtrl.CreateCategory)

		// Orders
		api.GET("/orders", orderCtrl.GetOrders)
		api.GET("/orders/:id", orderCtrl.GetOrderByID)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.PUT("/orders", orderCtrl.UpdateOrder)
		api.DELETE("/orders", orderCtrl.DeleteOrder)

		// Tables
		api.GET("/tables", tableCtrl.GetAllTables)
		api.POST("/tables", tableCtrl.CreateTable)
		api.PUT("/tables", tableCtrl.UpdateTableStatus)

		api.GET("/dashboard", dashboardCtrl.GetDashboardStats)
	}

	return r
}
