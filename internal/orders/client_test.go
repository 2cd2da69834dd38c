package orders

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/minhtdo/vietcart-backend/pkg/config"
	"github.com/minhtdo/vietcart-backend/pkg/enums"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
	"github.com/minhtdo/vietcart-backend/pkg/logger"
	"github.com/minhtdo/vietcart-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.OrderServiceConfig{
		BaseURL:     server.URL,
		Timeout:     2 * time.Second,
		SuccessCode: 1000,
	}, testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func sampleRequest() CreateOrderRequest {
	return CreateOrderRequest{
		ProfileID:     uuid.New(),
		DraftID:       uuid.NewString(),
		Lines:         []OrderLine{{ProductID: uuid.New(), VariantID: uuid.New(), Quantity: 1, UnitPrice: 150000}},
		Address:       OrderAddress{FullName: "Tran Thi B", Phone: "0912345678", Province: "Ha Noi"},
		PaymentMethod: enums.PaymentMethodCOD,
		Totals:        types.Totals{Subtotal: 150000, ShippingFee: 30000, GrandTotal: 180000},
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	t.Parallel()

	orderID := uuid.NewString()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Totals.GrandTotal != 180000 {
			t.Errorf("unexpected grand total %d", req.Totals.GrandTotal)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"code":    1000,
			"message": "success",
			"result":  map[string]string{"orderId": orderID},
		})
	})

	result, err := client.CreateOrder(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if result.OrderID != orderID {
		t.Fatalf("expected order id %s, got %s", orderID, result.OrderID)
	}
}

func TestCreateOrderDomainRejection(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code":    4092,
			"message": "voucher no longer eligible",
		})
	})

	_, err := client.CreateOrder(context.Background(), sampleRequest())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if appErr.Message() != "voucher no longer eligible" {
		t.Fatalf("expected upstream message, got %q", appErr.Message())
	}
}

func TestCreateOrderTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewClient(config.OrderServiceConfig{
		BaseURL:     server.URL,
		Timeout:     time.Second,
		SuccessCode: 1000,
	}, testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.CreateOrder(context.Background(), sampleRequest())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCreateOrderMissingOrderID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 1000, "message": "success"})
	})

	_, err := client.CreateOrder(context.Background(), sampleRequest())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
