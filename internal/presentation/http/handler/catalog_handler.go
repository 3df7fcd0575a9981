package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/selfcheckout-kiosk/internal/application/service"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/dto/request"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/dto/response"
	"github.com/sangkips/selfcheckout-kiosk/pkg/pagination"
)

// CatalogHandler handles product and discount code HTTP requests
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts handles GET /catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved successfully", products)
}

// GetProduct handles GET /catalog/products/:barcode
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	item, err := h.catalogService.GetItem(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved successfully", item)
}

// UpsertProduct handles PUT /catalog/products/:barcode
func (h *CatalogHandler) UpsertProduct(c *gin.Context) {
	var req request.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	product, err := h.catalogService.UpsertProduct(c.Request.Context(), &service.UpsertProductInput{
		Barcode: c.Param("barcode"),
		Name:    req.Name,
		Price:   req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product saved successfully", product)
}

// UpsertDiscountCode handles PUT /catalog/discount-codes/:code
func (h *CatalogHandler) UpsertDiscountCode(c *gin.Context) {
	var req request.UpsertDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	discountType := enum.DiscountTypeFixed
	if req.Type == enum.DiscountTypePercentage.String() {
		discountType = enum.DiscountTypePercentage
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	code, err := h.catalogService.UpsertDiscountCode(c.Request.Context(), &service.UpsertDiscountCodeInput{
		Code:        c.Param("code"),
		Type:        discountType,
		Amount:      req.Amount,
		Percent:     req.Percent,
		Description: req.Description,
		Active:      active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount code saved successfully", code)
}
