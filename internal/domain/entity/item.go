package entity

import (
	"github.com/shopspring/decimal"
	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
)

// Item is a priced product as it was resolved at scan time. It is a value:
// the cart holds its own copy, never a reference into the catalog.
type Item struct {
	Barcode string          `json:"barcode"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
}

// Validate checks the item can be placed in a cart.
func (i Item) Validate() error {
	if i.Price.IsNegative() {
		return apperror.ErrInvalidItem
	}
	return nil
}
