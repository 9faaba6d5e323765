package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type ProductController struct {
	Catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{Catalog: catalog}
}

// GetProducts -> katalog, urut kategori lalu nama
func (pc *ProductController) GetProducts(c *gin.Context) {
	products, err := pc.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondListError(c, err, []models.Product{})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondServiceError(c, bindError(err))
		return
	}
	in.ID = 0

	product, err := pc.Catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created successfully", product)
}

// UpdateProduct takes the product id from the body.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondServiceError(c, bindError(err))
		return
	}

	product, err := pc.Catalog.UpdateProduct(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated successfully", product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := parseID(c.Query("id"), "product id")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := pc.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted successfully", nil)
}
