package dto

const (
	GenerateModeAll    = "all"
	GenerateModeSingle = "single"
)

type GenerateInvoicesRequest struct {
	Mode           string `json:"mode" validate:"required,oneof=all single"`
	ContractID     string `json:"contract_id"`
	ReferenceMonth string `json:"reference_month" validate:"required"` // YYYY-MM-DD
	AutoBilling    bool   `json:"auto_billing"`
}

type InvoiceError struct {
	ContractID string `json:"contract_id"`
	Error      string `json:"error"`
}

// GenerateInvoicesResponse is the batch summary. Created + Skipped +
// len(Errors) always equals the number of contracts considered.
type GenerateInvoicesResponse struct {
	Success bool           `json:"success"`
	Created int            `json:"created"`
	Skipped int            `json:"skipped"`
	Errors  []InvoiceError `json:"errors"`
}

type WebhookResponse struct {
	PaymentID string `json:"payment_id,omitempty"`
	Deduped   bool   `json:"deduped"`
}
