package request

import "github.com/shopspring/decimal"

// ScanItemRequest places an already priced item in the cart
type ScanItemRequest struct {
	Barcode string          `json:"barcode" binding:"required,max=64"`
	Name    string          `json:"name" binding:"required,max=255"`
	Price   decimal.Decimal `json:"price"`
}

// AddItemRequest looks a barcode up in the catalog
type AddItemRequest struct {
	Barcode string `json:"barcode" binding:"required,max=64"`
}

// ApplyDiscountRequest records an attendant discount with a fixed amount
type ApplyDiscountRequest struct {
	Code        string          `json:"code" binding:"required,max=64"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"max=255"`
}

// ApplyDiscountCodeRequest applies a catalog discount code
type ApplyDiscountCodeRequest struct {
	Code string `json:"code" binding:"required,max=64"`
}

// SelectPaymentRequest picks "e-wallet", "card" or "cash"
type SelectPaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

// ProcessPaymentRequest reports the terminal outcome of an e-wallet or card payment
type ProcessPaymentRequest struct {
	Success *bool `json:"success" binding:"required"`
}
