package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Discount is an applied discount with its amount already computed
type Discount struct {
	Code        string          `json:"code"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Validate checks the discount can be recorded against a ledger.
func (d Discount) Validate() error {
	if d.Amount.IsNegative() {
		return apperror.ErrInvalidDiscount
	}
	return nil
}

// DiscountCode is a catalog definition that resolves to a Discount
type DiscountCode struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Code        string            `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Type        enum.DiscountType `gorm:"default:0" json:"type"`
	AmountCents int64             `gorm:"default:0" json:"amount_cents"` // fixed discounts, in cents
	Percent     int64             `gorm:"default:0" json:"percent"`      // percentage discounts, 0-100
	Description string            `gorm:"size:255" json:"description"`
	Active      bool              `gorm:"not null" json:"active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new discount code
func (c *DiscountCode) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiscountCode model
func (DiscountCode) TableName() string {
	return "discount_codes"
}

// Resolve fixes the discount amount against the subtotal at the time of
// application. Percentage discounts are rounded to cents.
func (c *DiscountCode) Resolve(subtotal decimal.Decimal) Discount {
	amount := decimal.New(c.AmountCents, -2)
	if c.Type == enum.DiscountTypePercentage {
		amount = subtotal.Mul(decimal.NewFromInt(c.Percent)).Div(hundred).Round(2)
	}
	return Discount{
		Code:        c.Code,
		Amount:      amount,
		Description: c.Description,
	}
}
