package flashsale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minhtdo/vietcart-backend/internal/products"
	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
)

// Quote is the display price for one product at one instant. ContactForPrice
// marks the no-variant case: there is nothing to price, and that is not an
// error.
type Quote struct {
	UnitPrice       int64
	OriginalPrice   int64
	Discounted      bool
	ContactForPrice bool
	FlashSaleID     *uuid.UUID
}

var oneHundred = decimal.NewFromInt(100)

// ResolveQuote computes the displayed unit price for a product given the
// currently known flash sales. Pure function of its inputs and now.
//
// When several active sales carry an item for the same product, the sale
// ending soonest wins; ties break on sale id so the outcome never depends on
// iteration order.
func ResolveQuote(product *models.Product, sales []models.FlashSale, now time.Time) Quote {
	original, ok := products.MinVariantPrice(product.Variants)
	if !ok {
		return Quote{ContactForPrice: true}
	}

	sale, item := matchItem(product.ID, sales, now)
	if item == nil {
		return Quote{UnitPrice: original, OriginalPrice: original}
	}

	discounted := applyItemDiscount(original, item.DiscountType, item.DiscountValue)
	if discounted >= original {
		return Quote{UnitPrice: original, OriginalPrice: original}
	}

	saleID := sale.ID
	return Quote{
		UnitPrice:     discounted,
		OriginalPrice: original,
		Discounted:    true,
		FlashSaleID:   &saleID,
	}
}

// ResolveVariantPrice applies the product's winning flash-sale discount to a
// specific variant price. The second return is the winning sale, nil when no
// discount applies.
func ResolveVariantPrice(productID uuid.UUID, variantPrice int64, sales []models.FlashSale, now time.Time) (int64, *uuid.UUID) {
	sale, item := matchItem(productID, sales, now)
	if item == nil {
		return variantPrice, nil
	}
	discounted := applyItemDiscount(variantPrice, item.DiscountType, item.DiscountValue)
	if discounted >= variantPrice {
		return variantPrice, nil
	}
	saleID := sale.ID
	return discounted, &saleID
}

func matchItem(productID uuid.UUID, sales []models.FlashSale, now time.Time) (*models.FlashSale, *models.FlashSaleItem) {
	var bestSale *models.FlashSale
	var bestItem *models.FlashSaleItem

	for i := range sales {
		sale := &sales[i]
		if !sale.IsActive(now) {
			continue
		}
		for j := range sale.Items {
			item := &sale.Items[j]
			if item.ProductID != productID {
				continue
			}
			if bestSale == nil || betterMatch(sale, bestSale) {
				bestSale, bestItem = sale, item
			}
		}
	}
	return bestSale, bestItem
}

func betterMatch(candidate, current *models.FlashSale) bool {
	if !candidate.EndTime.Equal(current.EndTime) {
		return candidate.EndTime.Before(current.EndTime)
	}
	return candidate.ID.String() < current.ID.String()
}

func applyItemDiscount(original int64, discountType enums.DiscountType, value int64) int64 {
	switch discountType {
	case enums.DiscountTypePercentage:
		if value <= 0 {
			return original
		}
		if value >= 100 {
			return 0
		}
		remaining := oneHundred.Sub(decimal.NewFromInt(value))
		return decimal.NewFromInt(original).
			Mul(remaining).
			Div(oneHundred).
			Round(0).
			IntPart()
	case enums.DiscountTypeAmount:
		discounted := original - value
		if discounted < 0 {
			return 0
		}
		return discounted
	}
	return original
}
