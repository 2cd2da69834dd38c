package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/minhtdo/vietcart-backend/pkg/config"
	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
	"github.com/minhtdo/vietcart-backend/pkg/logger"
)

// Client submits accepted drafts to the external order service.
type Client interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error)
}

type httpClient struct {
	baseURL     string
	successCode int
	http        *http.Client
	logg        *logger.Logger
}

// NewClient builds the order-service client. The HTTP timeout bounds the
// whole call; the caller decides whether to retry, this client never does.
func NewClient(cfg config.OrderServiceConfig, logg *logger.Logger) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("order service base url required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &httpClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		successCode: cfg.SuccessCode,
		http:        &http.Client{Timeout: cfg.Timeout},
		logg:        logg,
	}, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (c *httpClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode order request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logg.Error(ctx, "order service unreachable", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order service unreachable")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order service returned an unreadable response")
	}

	if env.Code != c.successCode {
		c.logg.Warn(ctx, fmt.Sprintf("order service rejected order: code=%d message=%s", env.Code, env.Message))
		message := env.Message
		if message == "" {
			message = "order service rejected the order"
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, message)
	}

	var result CreateOrderResult
	if len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, &result); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order service returned an unreadable result")
		}
	}
	if result.OrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order service accepted without an order id")
	}
	return &result, nil
}
