package controllers

import (
	"fmt"
	"handmade-store/models"
	"handmade-store/services"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func setETag(c *gin.Context, p *models.Product) {
	c.Header("ETag", fmt.Sprintf(`"%d"`, p.Version))
}

// expectedVersion reads the optimistic concurrency token from the body or an
// If-Match header. The body wins when both are present.
func expectedVersion(c *gin.Context, req models.ProductRequest) (*int64, error) {
	if req.Version != nil {
		return req.Version, nil
	}

	raw := strings.TrimSpace(c.GetHeader("If-Match"))
	if raw == "" || raw == "*" {
		return nil, nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &services.ValidationError{Message: "If-Match must be a product version"}
	}
	return &v, nil
}

// @Summary Get all products
// @Description List every product, newest first
// @Tags Products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} models.ErrorResponse
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	products, err := ctrl.products.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary Get product by ID
// @Description Get product details
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	product, err := ctrl.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch product")
		return
	}

	setETag(c, product)
	c.JSON(http.StatusOK, product)
}

// @Summary Create product
// @Description Create new product (Admin)
// @Tags Admin - Products
// @Accept json
// @Produce json
// @Param request body models.ProductRequest true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	product, err := ctrl.products.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create product")
		return
	}

	setETag(c, product)
	c.JSON(http.StatusCreated, product)
}

// @Summary Update product
// @Description Replace every mutable field of a product (Admin). Send version or If-Match to reject stale edits.
// @Tags Admin - Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body models.ProductRequest true "Product"
// @Success 200 {object} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /products/{id} [put]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	version, err := expectedVersion(c, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}

	product, err := ctrl.products.Update(c.Request.Context(), c.Param("id"), req, version)
	if err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}

	setETag(c, product)
	c.JSON(http.StatusOK, product)
}

// @Summary Delete product
// @Description Delete product permanently (Admin)
// @Tags Admin - Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.DeleteProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := ctrl.products.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, models.DeleteProductResponse{DeletedID: id})
}
