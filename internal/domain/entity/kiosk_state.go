package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
)

// KioskState is a read-only snapshot of a session for display
type KioskState struct {
	SessionID           uuid.UUID          `json:"session_id"`
	CurrentScreen       enum.Screen        `json:"current_screen"`
	CartItems           int                `json:"cart_items"`
	CartContents        []Item             `json:"cart_contents"`
	Subtotal            decimal.Decimal    `json:"subtotal"`
	DiscountsApplied    int                `json:"discounts_applied"`
	DiscountDetails     []Discount         `json:"discount_details"`
	TotalDiscount       decimal.Decimal    `json:"total_discount"`
	TotalDue            decimal.Decimal    `json:"total_due"`
	PaymentMethod       enum.PaymentMethod `json:"payment_method"`
	PaymentStatus       enum.PaymentStatus `json:"payment_status"`
	ReceiptPrinted      bool               `json:"receipt_printed"`
	ScannerActive       bool               `json:"scanner_active"`
	TransactionComplete bool               `json:"transaction_complete"`
}
