package flashsale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
)

// Service resolves flash-sale pricing for the storefront.
type Service interface {
	ListActive(ctx context.Context, now time.Time) ([]SaleDTO, error)
	QuoteProduct(ctx context.Context, productID uuid.UUID, now time.Time) (*ProductQuoteDTO, error)
}

// SaleDTO is an active flash sale with its discounted items.
type SaleDTO struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Items     []SaleItemDTO `json:"items"`
}

// SaleItemDTO carries the resolved price for one product inside a sale.
type SaleItemDTO struct {
	ProductID       uuid.UUID `json:"productId"`
	ProductName     string    `json:"productName"`
	UnitPrice       int64     `json:"unitPrice"`
	OriginalPrice   int64     `json:"originalPrice"`
	ContactForPrice bool      `json:"contactForPrice"`
}

// ProductQuoteDTO is the resolved display price for a single product.
type ProductQuoteDTO struct {
	ProductID       uuid.UUID  `json:"productId"`
	UnitPrice       int64      `json:"unitPrice"`
	OriginalPrice   int64      `json:"originalPrice"`
	Discounted      bool       `json:"discounted"`
	ContactForPrice bool       `json:"contactForPrice"`
	FlashSaleID     *uuid.UUID `json:"flashSaleId,omitempty"`
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     Repository
	products productLoader
}

// NewService constructs the flash-sale service.
func NewService(repo Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("flash sale repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products}, nil
}

// ListActive returns the sales running at now, each item priced against the
// full set of active sales so overlapping windows resolve the same way the
// single-product quote does.
func (s *service) ListActive(ctx context.Context, now time.Time) ([]SaleDTO, error) {
	sales, err := s.repo.ListActive(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list active flash sales")
	}

	out := make([]SaleDTO, 0, len(sales))
	for i := range sales {
		sale := &sales[i]
		dto := SaleDTO{
			ID:        sale.ID,
			Name:      sale.Name,
			StartTime: sale.StartTime,
			EndTime:   sale.EndTime,
			Items:     make([]SaleItemDTO, 0, len(sale.Items)),
		}
		for _, item := range sale.Items {
			product, err := s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load flash sale product")
			}
			quote := ResolveQuote(product, sales, now)
			dto.Items = append(dto.Items, SaleItemDTO{
				ProductID:       product.ID,
				ProductName:     product.Name,
				UnitPrice:       quote.UnitPrice,
				OriginalPrice:   quote.OriginalPrice,
				ContactForPrice: quote.ContactForPrice,
			})
		}
		out = append(out, dto)
	}
	return out, nil
}

// QuoteProduct resolves the display price for one product at now.
func (s *service) QuoteProduct(ctx context.Context, productID uuid.UUID, now time.Time) (*ProductQuoteDTO, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}

	sales, err := s.repo.ListActive(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list active flash sales")
	}

	quote := ResolveQuote(product, sales, now)
	return &ProductQuoteDTO{
		ProductID:       product.ID,
		UnitPrice:       quote.UnitPrice,
		OriginalPrice:   quote.OriginalPrice,
		Discounted:      quote.Discounted,
		ContactForPrice: quote.ContactForPrice,
		FlashSaleID:     quote.FlashSaleID,
	}, nil
}
