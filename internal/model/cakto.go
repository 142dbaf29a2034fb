package model

// CaktoWebhookEvent is the payload Cakto POSTs to the webhook endpoint.
// EventID may be absent; the ingestor then falls back to "cakto:<tx_id>"
// as the idempotency key.
type CaktoWebhookEvent struct {
	EventID string           `json:"event_id"`
	Type    string           `json:"type"` // payment.paid, payment.refunded, ...
	Secret  string           `json:"secret"`
	Data    CaktoPaymentData `json:"data"`
}

type CaktoPaymentData struct {
	TxID        string        `json:"tx_id"`
	AmountCents int64         `json:"amount_cents"`
	Currency    string        `json:"currency"`
	Plan        string        `json:"plan"` // plan name, optional
	Customer    CaktoCustomer `json:"customer"`
	CreatedAt   string        `json:"created_at"`
}

type CaktoCustomer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
