package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/selfcheckout-kiosk/internal/application/service"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/dto/request"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/dto/response"
	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
)

// KioskHandler handles the checkout session HTTP requests
type KioskHandler struct {
	kioskService *service.KioskService
}

// NewKioskHandler creates a new kiosk handler
func NewKioskHandler(kioskService *service.KioskService) *KioskHandler {
	return &KioskHandler{kioskService: kioskService}
}

// GetState handles GET /kiosk/state
func (h *KioskHandler) GetState(c *gin.Context) {
	response.OK(c, "Kiosk state retrieved successfully", h.kioskService.GetKioskState())
}

// BeginShopping handles POST /kiosk/begin
func (h *KioskHandler) BeginShopping(c *gin.Context) {
	if err := h.kioskService.BeginShopping(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Shopping started", h.kioskService.GetKioskState())
}

// ScanItem handles POST /kiosk/items/scan
func (h *KioskHandler) ScanItem(c *gin.Context) {
	var req request.ScanItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	item := entity.Item{Barcode: req.Barcode, Name: req.Name, Price: req.Price}
	if err := h.kioskService.ScanItem(item); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Item scanned", h.kioskService.GetKioskState())
}

// AddItem handles POST /kiosk/items
func (h *KioskHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	item, err := h.kioskService.AddItemByBarcode(c.Request.Context(), req.Barcode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Item added", gin.H{
		"item":  item,
		"state": h.kioskService.GetKioskState(),
	})
}

// RemoveLastItem handles DELETE /kiosk/items/last
func (h *KioskHandler) RemoveLastItem(c *gin.Context) {
	item, err := h.kioskService.RemoveLastItem()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", gin.H{
		"item":  item,
		"state": h.kioskService.GetKioskState(),
	})
}

// RemoveItem handles DELETE /kiosk/items/:index
func (h *KioskHandler) RemoveItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid item index")
		return
	}

	item, err := h.kioskService.RemoveItem(index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", gin.H{
		"item":  item,
		"state": h.kioskService.GetKioskState(),
	})
}

// OpenDiscounts handles POST /kiosk/discounts/open
func (h *KioskHandler) OpenDiscounts(c *gin.Context) {
	if err := h.kioskService.OpenDiscounts(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discounts opened", h.kioskService.GetKioskState())
}

// ApplyDiscount handles POST /kiosk/discounts (attendant only)
func (h *KioskHandler) ApplyDiscount(c *gin.Context) {
	var req request.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	d := entity.Discount{Code: req.Code, Amount: req.Amount, Description: req.Description}
	if err := h.kioskService.ApplyDiscount(d); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Discount applied", h.kioskService.GetKioskState())
}

// ApplyDiscountCode handles POST /kiosk/discounts/code
func (h *KioskHandler) ApplyDiscountCode(c *gin.Context) {
	var req request.ApplyDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	discount, err := h.kioskService.ApplyDiscountCode(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Discount applied", gin.H{
		"discount": discount,
		"state":    h.kioskService.GetKioskState(),
	})
}

// ResumeScanning handles POST /kiosk/scanning/resume
func (h *KioskHandler) ResumeScanning(c *gin.Context) {
	if err := h.kioskService.ResumeScanning(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Scanning resumed", h.kioskService.GetKioskState())
}

// StartScanner handles POST /kiosk/scanner/start
func (h *KioskHandler) StartScanner(c *gin.Context) {
	if err := h.kioskService.StartContinuousScanning(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Scanner started", gin.H{"scanner_active": h.kioskService.ScannerActive()})
}

// StopScanner handles POST /kiosk/scanner/stop
func (h *KioskHandler) StopScanner(c *gin.Context) {
	h.kioskService.StopContinuousScanning()
	response.OK(c, "Scanner stopped", gin.H{"scanner_active": h.kioskService.ScannerActive()})
}

// ProceedToPayment handles POST /kiosk/payment
func (h *KioskHandler) ProceedToPayment(c *gin.Context) {
	if err := h.kioskService.ProceedToPayment(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Select a payment method", h.kioskService.GetKioskState())
}

// SelectPayment handles POST /kiosk/payment/method
func (h *KioskHandler) SelectPayment(c *gin.Context) {
	var req request.SelectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	screen, err := h.kioskService.SelectPaymentByName(req.Method)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment method selected", gin.H{
		"screen": screen,
		"state":  h.kioskService.GetKioskState(),
	})
}

// ProcessPayment handles POST /kiosk/payment/process
func (h *KioskHandler) ProcessPayment(c *gin.Context) {
	var req request.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	status, err := h.kioskService.ProcessPayment(*req.Success)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Payment successful"
	if !*req.Success {
		message = "Payment failed, please select a payment method again"
	}
	response.OK(c, message, gin.H{
		"payment_status": status,
		"state":          h.kioskService.GetKioskState(),
	})
}

// PrintReceipt handles POST /kiosk/receipt
func (h *KioskHandler) PrintReceipt(c *gin.Context) {
	receipt, err := h.kioskService.PrintReceipt()
	if err != nil {
		if receipt != nil {
			// The transaction is complete even if the printer failed
			response.OK(c, "Receipt created but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed", gin.H{"receipt": receipt})
}

// GetLastReceipt handles GET /kiosk/receipt
func (h *KioskHandler) GetLastReceipt(c *gin.Context) {
	receipt := h.kioskService.LastReceipt()
	if receipt == nil {
		response.Error(c, apperror.NewNotFoundError("Receipt"))
		return
	}
	response.OK(c, "Receipt retrieved successfully", gin.H{"receipt": receipt})
}

// StartNewTransaction handles POST /kiosk/transactions/new
func (h *KioskHandler) StartNewTransaction(c *gin.Context) {
	if err := h.kioskService.StartNewTransaction(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "New transaction started", h.kioskService.GetKioskState())
}

// Cancel handles POST /kiosk/cancel
func (h *KioskHandler) Cancel(c *gin.Context) {
	if err := h.kioskService.Cancel(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Action cancelled", h.kioskService.GetKioskState())
}
