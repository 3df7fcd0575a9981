package repository

import (
	"context"
	"errors"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	domainRepo "github.com/sangkips/selfcheckout-kiosk/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new Postgres-backed catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Lookup(ctx context.Context, barcode string) (*entity.Item, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "barcode = ?", barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item := product.ToItem()
	return &item, nil
}

func (r *catalogRepository) Barcodes(ctx context.Context) ([]string, error) {
	var barcodes []string
	err := r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Order("barcode ASC").
		Pluck("barcode", &barcodes).Error
	return barcodes, err
}

func (r *catalogRepository) FindDiscountCode(ctx context.Context, code string) (*entity.DiscountCode, error) {
	var dc entity.DiscountCode
	err := r.db.WithContext(ctx).
		Where("code = ? AND active = ?", code, true).
		First(&dc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dc, nil
}

func (r *catalogRepository) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *catalogRepository) UpsertProduct(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barcode"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "price_cents", "updated_at"}),
		}).
		Create(product).Error
}

func (r *catalogRepository) UpsertDiscountCode(ctx context.Context, code *entity.DiscountCode) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "amount_cents", "percent", "description", "active", "updated_at"}),
		}).
		Create(code).Error
}
