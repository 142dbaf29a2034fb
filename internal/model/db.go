package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ContractStatusActive    = "active"
	ContractStatusExpired   = "expired"
	ContractStatusCancelled = "cancelled"
)

const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

const (
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusPending  = "pending"
)

const (
	CheckoutStatusCreated    = "created"
	CheckoutStatusRedirected = "redirected"
	CheckoutStatusPaid       = "paid"
)

// Contract is a lease managed by an owner (the property manager).
// Contracts are created by the contract wizard and are read-only here.
type Contract struct {
	ID             string          `gorm:"primaryKey;size:36;not null"`
	OwnerID        string          `gorm:"size:36;index;not null"`
	TenantName     string          `gorm:"size:255"`
	RentalValue    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentDay     int             // 1-28; 0 means unset, billing defaults to day 5
	PrePaid        bool            // billed one month ahead of the service period
	GuaranteeType  string          `gorm:"size:32"`
	GuaranteeValue decimal.Decimal `gorm:"type:decimal(12,2)"`
	StartDate      time.Time       `gorm:"not null"`
	Status         string          `gorm:"size:16;index;not null"` // active, expired, cancelled
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Invoice is unique on (contract_id, reference_month); that pair is the
// idempotency key for generation and the unique index below is the actual
// correctness boundary under concurrent runs.
type Invoice struct {
	ID             string `gorm:"primaryKey;size:36;not null"`
	ContractID     string `gorm:"size:36;not null;uniqueIndex:ux_invoices_contract_month,priority:1"`
	ReferenceMonth string `gorm:"size:7;not null;uniqueIndex:ux_invoices_contract_month,priority:2"` // YYYY-MM
	OwnerID        string `gorm:"size:36;index;not null"`
	InvoiceNumber  string `gorm:"size:32;index;not null"` // FAT-YYYYMM-NNNN
	IssueDate      time.Time
	DueDate        time.Time

	RentalAmount              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GuaranteeInstallment      decimal.Decimal `gorm:"type:decimal(12,2)"`
	GuaranteeInstallmentIndex *int            // 1..12, nil once the deposit is amortized

	// Utility add-ons start zeroed and are edited later by the management UI.
	WaterAmount       decimal.Decimal `gorm:"type:decimal(12,2)"`
	ElectricityAmount decimal.Decimal `gorm:"type:decimal(12,2)"`
	GasAmount         decimal.Decimal `gorm:"type:decimal(12,2)"`
	InternetAmount    decimal.Decimal `gorm:"type:decimal(12,2)"`
	CondoAmount       decimal.Decimal `gorm:"type:decimal(12,2)"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      string          `gorm:"size:16;index;not null"` // pending, paid, cancelled

	Logs []InvoiceLog `gorm:"foreignKey:InvoiceID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoiceLog is the invoice's append-only history.
type InvoiceLog struct {
	ID            uint   `gorm:"primaryKey"`
	InvoiceID     string `gorm:"size:36;index;not null"`
	Action        string `gorm:"size:32;not null"` // created, paid, cancelled
	Actor         string `gorm:"size:36;not null"`
	AutoGenerated bool
	CreatedAt     time.Time
}

// InvoiceSequence holds the last assigned invoice number per
// (owner, month prefix). Incremented under a row lock so numbering stays
// monotonic and gap-free across concurrent generation runs.
type InvoiceSequence struct {
	OwnerID   string `gorm:"primaryKey;size:36;not null"`
	Prefix    string `gorm:"primaryKey;size:16;not null"` // FAT-YYYYMM
	LastValue int64  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Plan is a purchasable license plan.
type Plan struct {
	ID           string `gorm:"primaryKey;size:36;not null"`
	Name         string `gorm:"size:128;uniqueIndex;not null"`
	PriceCents   int64  `gorm:"not null"`
	Currency     string `gorm:"size:8;not null"`
	DaysDuration int    `gorm:"not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User is a property manager with a licensed account. LicenseExpiresAt is
// nil for accounts that were never licensed.
type User struct {
	ID               string     `gorm:"primaryKey;size:36;not null"`
	Email            string     `gorm:"size:255;uniqueIndex;not null"`
	Name             string     `gorm:"size:255"`
	LicenseExpiresAt *time.Time `gorm:"column:data_expiracao"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Payment records one provider payment event. EventID is the idempotency
// key; the unique index makes a repeat delivery fail the insert instead of
// creating a second row.
type Payment struct {
	ID           string  `gorm:"primaryKey;size:36;not null"`
	EventID      string  `gorm:"size:128;uniqueIndex;not null"`
	ExternalTxID string  `gorm:"size:128;index"`
	UserID       string  `gorm:"size:36;index;not null"`
	PlanID       *string `gorm:"size:36;index"` // nil when no plan matched
	AmountCents  int64   `gorm:"not null"`
	Currency     string  `gorm:"size:8;not null"`
	Status       string  `gorm:"size:16;index;not null"` // paid, refunded, pending
	Provider     string  `gorm:"size:32;not null"`
	RawPayload   string  `gorm:"type:text"`
	CreatedAt    time.Time
}

// LicenseAudit is append-only: one row per successful license extension.
type LicenseAudit struct {
	ID                 string `gorm:"primaryKey;size:36;not null"`
	UserID             string `gorm:"size:36;index;not null"`
	PaymentID          string `gorm:"size:36;index;not null"`
	PreviousExpiration *time.Time
	NewExpiration      time.Time `gorm:"not null"`
	Source             string    `gorm:"size:64;not null"` // e.g. webhook:cakto
	CreatedAt          time.Time
}

// CheckoutSession tracks one purchase attempt. Status only moves forward:
// created -> redirected -> paid.
type CheckoutSession struct {
	ID        string `gorm:"primaryKey;size:36;not null"`
	UserID    string `gorm:"size:36;index;not null"`
	PlanID    string `gorm:"size:36;index;not null"`
	Status    string `gorm:"size:16;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
