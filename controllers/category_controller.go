package controllers

import (
	"handmade-store/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CategoryController struct{}

// @Summary Get all categories
// @Description Get the fixed list of product categories
// @Tags Categories
// @Produce json
// @Success 200 {object} models.CategoriesResponse
// @Router /categories [get]
func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.CategoriesResponse{Categories: models.ProductCategories})
}
