package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

// GetAllTables -> semua meja, bisa difilter ?status=
func (tc *TableController) GetAllTables(c *gin.Context) {
	status := models.TableStatus(c.Query("status"))
	tables, err := tc.Tables.List(c.Request.Context(), status)
	if err != nil {
		respondListError(c, err, []models.Table{})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable -> menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var in services.TableInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondServiceError(c, bindError(err))
		return
	}

	table, err := tc.Tables.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// UpdateTableStatus -> update status meja
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	var body struct {
		ID     uint               `json:"id"`
		Status models.TableStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondServiceError(c, bindError(err))
		return
	}

	table, err := tc.Tables.UpdateStatus(c.Request.Context(), body.ID, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}
