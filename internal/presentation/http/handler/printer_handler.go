package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/selfcheckout-kiosk/internal/application/service"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/dto/response"
	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
	kioskService   *service.KioskService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService, kioskService *service.KioskService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService, kioskService: kioskService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus()
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint()
	if err != nil {
		// Return the receipt data anyway (useful when printer type is "none")
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{
		"receipt": receipt,
	})
}

// Reprint sends the most recent receipt to the printer again.
func (h *PrinterHandler) Reprint(c *gin.Context) {
	receipt := h.kioskService.LastReceipt()
	if receipt == nil {
		response.Error(c, apperror.NewNotFoundError("Receipt"))
		return
	}

	if err := h.printerService.Print(receipt); err != nil {
		response.OK(c, "Receipt retrieved but printing failed", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Receipt reprinted successfully", gin.H{
		"receipt": receipt,
	})
}
