package repository

import (
	"context"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
)

// CatalogRepository defines the barcode and discount code lookups the kiosk depends on
type CatalogRepository interface {
	// Lookup returns a fresh Item copy for the barcode, or nil when it is not in the catalog
	Lookup(ctx context.Context, barcode string) (*entity.Item, error)
	// Barcodes lists every known barcode (feeds the simulated scanner)
	Barcodes(ctx context.Context) ([]string, error)
	// FindDiscountCode returns an active discount code, or nil when unknown
	FindDiscountCode(ctx context.Context, code string) (*entity.DiscountCode, error)
	ListProducts(ctx context.Context) ([]entity.Product, error)
	UpsertProduct(ctx context.Context, product *entity.Product) error
	UpsertDiscountCode(ctx context.Context, code *entity.DiscountCode) error
}
