package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	domainRepo "github.com/sangkips/selfcheckout-kiosk/internal/domain/repository"
)

type memoryCatalogRepository struct {
	mu        sync.RWMutex
	products  map[string]entity.Product
	discounts map[string]entity.DiscountCode
}

// NewMemoryCatalogRepository creates an in-process catalog holding the given records
func NewMemoryCatalogRepository(products []entity.Product, codes []entity.DiscountCode) domainRepo.CatalogRepository {
	r := &memoryCatalogRepository{
		products:  make(map[string]entity.Product, len(products)),
		discounts: make(map[string]entity.DiscountCode, len(codes)),
	}
	ctx := context.Background()
	for i := range products {
		_ = r.UpsertProduct(ctx, &products[i])
	}
	for i := range codes {
		_ = r.UpsertDiscountCode(ctx, &codes[i])
	}
	return r
}

// NewDefaultMemoryCatalogRepository creates an in-process catalog seeded with the demo data
func NewDefaultMemoryCatalogRepository() domainRepo.CatalogRepository {
	return NewMemoryCatalogRepository(DefaultProducts(), DefaultDiscountCodes())
}

func (r *memoryCatalogRepository) Lookup(_ context.Context, barcode string) (*entity.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[barcode]
	if !ok {
		return nil, nil
	}
	item := product.ToItem()
	return &item, nil
}

func (r *memoryCatalogRepository) Barcodes(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	barcodes := make([]string, 0, len(r.products))
	for barcode := range r.products {
		barcodes = append(barcodes, barcode)
	}
	sort.Strings(barcodes)
	return barcodes, nil
}

func (r *memoryCatalogRepository) FindDiscountCode(_ context.Context, code string) (*entity.DiscountCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dc, ok := r.discounts[code]
	if !ok || !dc.Active {
		return nil, nil
	}
	return &dc, nil
}

func (r *memoryCatalogRepository) ListProducts(_ context.Context) ([]entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]entity.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *memoryCatalogRepository) UpsertProduct(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.products[product.Barcode]; ok {
		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	r.products[product.Barcode] = *product
	return nil
}

func (r *memoryCatalogRepository) UpsertDiscountCode(_ context.Context, code *entity.DiscountCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.discounts[code.Code]; ok {
		code.ID = existing.ID
		code.CreatedAt = existing.CreatedAt
	}
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = now
	}
	code.UpdatedAt = now
	r.discounts[code.Code] = *code
	return nil
}
