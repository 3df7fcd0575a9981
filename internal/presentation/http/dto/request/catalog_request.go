package request

import "github.com/shopspring/decimal"

// UpsertProductRequest represents a product create-or-update request
type UpsertProductRequest struct {
	Name  string          `json:"name" binding:"required,min=1,max=255"`
	Price decimal.Decimal `json:"price"`
}

// UpsertDiscountCodeRequest represents a discount code create-or-update request
type UpsertDiscountCodeRequest struct {
	Type        string          `json:"type" binding:"required,oneof=fixed percentage"`
	Amount      decimal.Decimal `json:"amount"`
	Percent     int64           `json:"percent" binding:"min=0,max=100"`
	Description string          `json:"description" binding:"max=255"`
	Active      *bool           `json:"active"`
}

// AttendantLoginRequest represents an attendant PIN login
type AttendantLoginRequest struct {
	PIN string `json:"pin" binding:"required,min=4,max=12"`
}
