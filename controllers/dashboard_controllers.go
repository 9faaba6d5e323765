package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: dashboard}
}

// GetDashboardStats always answers 200; failures show up as zeros.
func (dc *DashboardController) GetDashboardStats(c *gin.Context) {
	metrics := dc.Dashboard.Metrics(c.Request.Context())
	utils.RespondJSON(c, http.StatusOK, "Dashboard metrics", metrics)
}
