package repository

import (
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
)

// DefaultProducts returns the demo catalog the kiosk ships with.
func DefaultProducts() []entity.Product {
	return []entity.Product{
		{Barcode: "123456789", Name: "Bread", PriceCents: 299},
		{Barcode: "987654321", Name: "Milk", PriceCents: 349},
		{Barcode: "456789123", Name: "Eggs", PriceCents: 499},
		{Barcode: "789123456", Name: "Bananas", PriceCents: 199},
		{Barcode: "321654987", Name: "Coffee", PriceCents: 599},
		{Barcode: "654987321", Name: "Cereal", PriceCents: 449},
	}
}

// DefaultDiscountCodes returns the demo discount codes.
func DefaultDiscountCodes() []entity.DiscountCode {
	return []entity.DiscountCode{
		{Code: "SAVE10", Type: enum.DiscountTypeFixed, AmountCents: 100, Description: "$1.00 off your purchase", Active: true},
		{Code: "SPRING25", Type: enum.DiscountTypeFixed, AmountCents: 250, Description: "$2.50 off your purchase", Active: true},
		{Code: "5PERCENTOFF", Type: enum.DiscountTypePercentage, Percent: 5, Description: "5% off your total", Active: true},
	}
}
