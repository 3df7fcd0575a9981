package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/repository"
	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
	"github.com/sangkips/selfcheckout-kiosk/pkg/pagination"
)

// CatalogService handles product and discount code maintenance
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	log         *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{catalogRepo: catalogRepo, log: log.Named("catalog")}
}

// ListProducts returns one page of products ordered by name
func (s *CatalogService) ListProducts(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, err := s.catalogRepo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return pagination.Page(products, params), nil
}

// GetItem resolves a barcode to its current price
func (s *CatalogService) GetItem(ctx context.Context, barcode string) (*entity.Item, error) {
	item, err := s.catalogRepo.Lookup(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewItemNotFound(barcode)
	}
	return item, nil
}

// UpsertProductInput represents the product upsert input
type UpsertProductInput struct {
	Barcode string
	Name    string
	Price   decimal.Decimal
}

// UpsertProduct creates a product or replaces its name and price.
// Items already in a cart keep the price they were scanned at.
func (s *CatalogService) UpsertProduct(ctx context.Context, input *UpsertProductInput) (*entity.Product, error) {
	barcode := strings.TrimSpace(input.Barcode)
	name := strings.TrimSpace(input.Name)

	var fieldErrors []apperror.FieldError
	if barcode == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "barcode", Message: "Barcode is required"})
	}
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if input.Price.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "Price cannot be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	product := &entity.Product{Barcode: barcode, Name: name}
	product.SetPrice(input.Price)
	if err := s.catalogRepo.UpsertProduct(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info("product saved", zap.String("barcode", barcode), zap.String("price", input.Price.StringFixed(2)))
	return product, nil
}

// UpsertDiscountCodeInput represents the discount code upsert input
type UpsertDiscountCodeInput struct {
	Code        string
	Type        enum.DiscountType
	Amount      decimal.Decimal // fixed discounts
	Percent     int64           // percentage discounts
	Description string
	Active      bool
}

// UpsertDiscountCode creates or replaces a discount code definition
func (s *CatalogService) UpsertDiscountCode(ctx context.Context, input *UpsertDiscountCodeInput) (*entity.DiscountCode, error) {
	code := strings.TrimSpace(input.Code)

	var fieldErrors []apperror.FieldError
	if code == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "code", Message: "Code is required"})
	}
	switch input.Type {
	case enum.DiscountTypeFixed:
		if input.Amount.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "Amount cannot be negative"})
		}
	case enum.DiscountTypePercentage:
		if input.Percent < 0 || input.Percent > 100 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "percent", Message: "Percent must be between 0 and 100"})
		}
	default:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "type", Message: "Unknown discount type"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	dc := &entity.DiscountCode{
		Code:        code,
		Type:        input.Type,
		Percent:     input.Percent,
		AmountCents: input.Amount.Shift(2).Round(0).IntPart(),
		Description: input.Description,
		Active:      input.Active,
	}
	if err := s.catalogRepo.UpsertDiscountCode(ctx, dc); err != nil {
		return nil, err
	}

	s.log.Info("discount code saved", zap.String("code", code), zap.Stringer("type", input.Type))
	return dc, nil
}
