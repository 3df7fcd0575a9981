package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog record keyed by barcode
type Product struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Barcode    string         `gorm:"size:64;uniqueIndex;not null" json:"barcode"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	PriceCents int64          `gorm:"default:0" json:"price_cents"` // Stored in cents
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Price returns the selling price as a decimal
func (p *Product) Price() decimal.Decimal {
	return decimal.New(p.PriceCents, -2)
}

// SetPrice stores a decimal price in cents, rounding half away from zero
func (p *Product) SetPrice(price decimal.Decimal) {
	p.PriceCents = price.Shift(2).Round(0).IntPart()
}

// ToItem returns a fresh Item value for the cart
func (p *Product) ToItem() Item {
	return Item{
		Barcode: p.Barcode,
		Name:    p.Name,
		Price:   p.Price(),
	}
}

// productJSON is a helper struct for JSON marshaling with decimal prices
type productJSON struct {
	ID        uuid.UUID       `json:"id"`
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MarshalJSON converts Product to JSON with a decimal price
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(productJSON{
		ID:        p.ID,
		Barcode:   p.Barcode,
		Name:      p.Name,
		Price:     p.Price(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
}
