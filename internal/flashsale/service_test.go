package flashsale

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minhtdo/vietcart-backend/internal/products"
	"github.com/minhtdo/vietcart-backend/pkg/db/models"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:flashsale_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductVariant{}, &models.FlashSale{}, &models.FlashSaleItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, price int64) models.Product {
	t.Helper()
	product := models.Product{
		ID:         uuid.New(),
		Name:       "Bamboo tray",
		CategoryID: uuid.New(),
		SupplierID: uuid.New(),
		IsActive:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	variant := models.ProductVariant{ID: uuid.New(), ProductID: product.ID, Name: "standard", PriceVND: price}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return product
}

func seedSale(t *testing.T, db *gorm.DB, productID uuid.UUID, start, end time.Time, discountType enums.DiscountType, value int64) models.FlashSale {
	t.Helper()
	sale := models.FlashSale{ID: uuid.New(), Name: "midnight deal", StartTime: start, EndTime: end}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	item := models.FlashSaleItem{
		ID:            uuid.New(),
		FlashSaleID:   sale.ID,
		ProductID:     productID,
		DiscountType:  discountType,
		DiscountValue: value,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return sale
}

func TestServiceQuoteProduct(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	product := seedProduct(t, db, 200000)
	sale := seedSale(t, db, product.ID, now.Add(-time.Hour), now.Add(time.Hour), enums.DiscountTypeAmount, 50000)

	svc, err := NewService(NewRepository(db), products.NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	quote, err := svc.QuoteProduct(context.Background(), product.ID, now)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.UnitPrice != 150000 || quote.OriginalPrice != 200000 {
		t.Fatalf("unexpected quote %+v", quote)
	}
	if quote.FlashSaleID == nil || *quote.FlashSaleID != sale.ID {
		t.Fatalf("expected sale %s, got %v", sale.ID, quote.FlashSaleID)
	}
}

func TestServiceQuoteProductNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(NewRepository(db), products.NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.QuoteProduct(context.Background(), uuid.New(), time.Now())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceListActiveSkipsExpired(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	product := seedProduct(t, db, 100000)
	seedSale(t, db, product.ID, now.Add(-3*time.Hour), now.Add(-time.Hour), enums.DiscountTypeAmount, 10000)
	active := seedSale(t, db, product.ID, now.Add(-time.Hour), now.Add(time.Hour), enums.DiscountTypePercentage, 10)

	svc, err := NewService(NewRepository(db), products.NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	sales, err := svc.ListActive(context.Background(), now)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sales) != 1 || sales[0].ID != active.ID {
		t.Fatalf("expected only the active sale, got %+v", sales)
	}
	if len(sales[0].Items) != 1 {
		t.Fatalf("expected one item, got %d", len(sales[0].Items))
	}
	if sales[0].Items[0].UnitPrice != 90000 {
		t.Fatalf("expected 90000, got %d", sales[0].Items[0].UnitPrice)
	}
}
