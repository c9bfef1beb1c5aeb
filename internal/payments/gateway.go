package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/internal/shared/config"
	"ticketflow/pkg/logger"
)

// Gateway abstracts the external payment provider so the booking flow can be
// tested against a fake and the provider swapped without touching callers.
type Gateway interface {
	Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error)
	Refund(ctx context.Context, paymentKey string, reason string) (*RefundResult, error)
}

// HTTPGateway talks to a Toss-style REST gateway. Authentication is HTTP
// Basic with the secret key as username and an empty password.
type HTTPGateway struct {
	baseURL    string
	authHeader string
	client     *http.Client
	log        *logger.Logger
}

func NewHTTPGateway(cfg config.PaymentConfig) *HTTPGateway {
	encoded := base64.StdEncoding.EncodeToString([]byte(cfg.SecretKey + ":"))
	return &HTTPGateway{
		baseURL:    cfg.BaseURL,
		authHeader: "Basic " + encoded,
		client:     &http.Client{Timeout: cfg.Timeout},
		log:        logger.GetDefault(),
	}
}

type confirmPayload struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

type gatewayPaymentResponse struct {
	PaymentKey         string    `json:"paymentKey"`
	OrderID            string    `json:"orderId"`
	TotalAmount        int64     `json:"totalAmount"`
	Method             string    `json:"method"`
	Status             string    `json:"status"`
	ApprovedAt         time.Time `json:"approvedAt"`
	LastTransactionKey string    `json:"lastTransactionKey"`
}

type gatewayErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Confirm asks the gateway to capture the payment. Non-2xx responses map to
// ErrGatewayNotApproved; transport failures map to ErrGatewayFailure.
func (g *HTTPGateway) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	body := confirmPayload{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     req.Amount,
	}

	var resp gatewayPaymentResponse
	if err := g.post(ctx, "/v1/payments/confirm", body, &resp); err != nil {
		return nil, err
	}

	return &ConfirmResult{
		PaymentKey:    resp.PaymentKey,
		OrderID:       resp.OrderID,
		Amount:        resp.TotalAmount,
		Method:        resp.Method,
		TransactionID: resp.LastTransactionKey,
		ApprovedAt:    resp.ApprovedAt,
	}, nil
}

// Refund cancels a captured payment in full.
func (g *HTTPGateway) Refund(ctx context.Context, paymentKey string, reason string) (*RefundResult, error) {
	body := map[string]string{"cancelReason": reason}

	var resp gatewayPaymentResponse
	path := fmt.Sprintf("/v1/payments/%s/cancel", paymentKey)
	if err := g.post(ctx, path, body, &resp); err != nil {
		return nil, err
	}

	return &RefundResult{
		PaymentKey: resp.PaymentKey,
		Amount:     resp.TotalAmount,
		Reason:     reason,
	}, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Authorization", g.authHeader)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrGatewayFailure, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", apperrors.ErrGatewayFailure, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var gwErr gatewayErrorResponse
		if json.Unmarshal(respBody, &gwErr) == nil && gwErr.Code != "" {
			g.log.WithFields(map[string]interface{}{
				"status":  httpResp.StatusCode,
				"code":    gwErr.Code,
				"message": gwErr.Message,
			}).Warn("Payment gateway rejected request")
			return fmt.Errorf("%w: %s (%s)", apperrors.ErrGatewayNotApproved, gwErr.Message, gwErr.Code)
		}
		return fmt.Errorf("%w: status %d", apperrors.ErrGatewayNotApproved, httpResp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", apperrors.ErrGatewayFailure, err)
	}
	return nil
}
