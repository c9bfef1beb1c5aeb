package payments

import "time"

// ConfirmRequest carries the gateway callback parameters the client hands
// back after the hosted payment page completes.
type ConfirmRequest struct {
	OrderID    string
	PaymentKey string
	Amount     int64
}

// ConfirmResult is the approved payment as reported by the gateway.
type ConfirmResult struct {
	PaymentKey    string
	OrderID       string
	Amount        int64
	Method        string
	TransactionID string
	ApprovedAt    time.Time
}

// RefundResult reports a processed refund.
type RefundResult struct {
	PaymentKey string
	Amount     int64
	Reason     string
}
