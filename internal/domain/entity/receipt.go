package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
)

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Receipt is a value object frozen when the receipt is printed.
// It shares no slices with the live ledger, so starting a new transaction
// leaves it intact.
type Receipt struct {
	ReceiptNo     string             `json:"receipt_no"`
	SessionID     uuid.UUID          `json:"session_id"`
	Header        ReceiptHeader      `json:"header"`
	Items         []Item             `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discounts     []Discount         `json:"discounts"`
	TotalDiscount decimal.Decimal    `json:"total_discount"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	PaymentStatus enum.PaymentStatus `json:"payment_status"`
	Timestamp     string             `json:"timestamp"`
}
