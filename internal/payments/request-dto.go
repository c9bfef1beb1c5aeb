package payments

// ConfirmPaymentRequest represents a payment confirmation callback
type ConfirmPaymentRequest struct {
	OrderID    string `json:"order_id" binding:"required,orderid"`
	PaymentKey string `json:"payment_key" binding:"required,max=200"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
}
