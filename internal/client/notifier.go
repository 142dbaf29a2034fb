package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/config"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"
)

// Notifier pushes invoice events to the workflow engine's inbound webhook.
// Callers treat failures as warnings; a missed notification never fails the
// billing run.
type Notifier interface {
	InvoiceCreated(ctx context.Context, invoice *model.Invoice) error
}

type notifierImpl struct {
	httpClient *http.Client
	webhookURL string
}

func NewNotifier(notifierCfg *config.Notifier) Notifier {
	return &notifierImpl{
		httpClient: &http.Client{
			Timeout: notifierCfg.Timeout,
		},
		webhookURL: notifierCfg.WebhookURL,
	}
}

type invoiceCreatedPayload struct {
	Event          string    `json:"event"`
	InvoiceID      string    `json:"invoice_id"`
	InvoiceNumber  string    `json:"invoice_number"`
	ContractID     string    `json:"contract_id"`
	OwnerID        string    `json:"owner_id"`
	ReferenceMonth string    `json:"reference_month"`
	DueDate        time.Time `json:"due_date"`
	TotalAmount    string    `json:"total_amount"`
}

func (n *notifierImpl) InvoiceCreated(ctx context.Context, invoice *model.Invoice) error {
	if n.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(invoiceCreatedPayload{
		Event:          "invoice.created",
		InvoiceID:      invoice.ID,
		InvoiceNumber:  invoice.InvoiceNumber,
		ContractID:     invoice.ContractID,
		OwnerID:        invoice.OwnerID,
		ReferenceMonth: invoice.ReferenceMonth,
		DueDate:        invoice.DueDate,
		TotalAmount:    invoice.TotalAmount.StringFixed(2),
	})
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
	}

	return nil
}
