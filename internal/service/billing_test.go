package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/dto"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Contract{},
		&model.Invoice{},
		&model.InvoiceLog{},
		&model.InvoiceSequence{},
		&model.Plan{},
		&model.User{},
		&model.Payment{},
		&model.LicenseAudit{},
		&model.CheckoutSession{},
	))

	return db
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type recordingNotifier struct {
	invoiceIDs []string
}

func (n *recordingNotifier) InvoiceCreated(_ context.Context, invoice *model.Invoice) error {
	n.invoiceIDs = append(n.invoiceIDs, invoice.ID)
	return nil
}

// failingInvoiceRepo fails Create for one contract to exercise the
// partial-failure path.
type failingInvoiceRepo struct {
	repository.InvoiceRepository
	failContractID string
}

func (r *failingInvoiceRepo) Create(ctx context.Context, tx *gorm.DB, invoice *model.Invoice) error {
	if invoice.ContractID == r.failContractID {
		return errors.New("simulated write failure")
	}
	return r.InvoiceRepository.Create(ctx, tx, invoice)
}

func seedContract(t *testing.T, db *gorm.DB, id, ownerID string, status string) *model.Contract {
	t.Helper()

	contract := &model.Contract{
		ID:             id,
		OwnerID:        ownerID,
		TenantName:     "Tenant " + id,
		RentalValue:    decimal.NewFromInt(1500),
		PaymentDay:     10,
		GuaranteeType:  "deposit",
		GuaranteeValue: decimal.NewFromInt(1200),
		StartDate:      date(2024, time.January, 1),
		Status:         status,
	}
	require.NoError(t, db.Create(contract).Error)
	return contract
}

func newBillingService(db *gorm.DB, notifier *recordingNotifier, invoiceRepo repository.InvoiceRepository) BillingService {
	if invoiceRepo == nil {
		invoiceRepo = repository.NewInvoiceRepository(db)
	}
	return NewBillingService(
		db, testLogger(), notifier,
		repository.NewContractRepository(db),
		invoiceRepo,
		repository.NewSequenceRepository(db),
	)
}

func TestGenerateInvoicesIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedContract(t, db, "c1", "owner-1", model.ContractStatusActive)

	notifier := &recordingNotifier{}
	svc := newBillingService(db, notifier, nil)
	req := &dto.GenerateInvoicesRequest{Mode: dto.GenerateModeAll, ReferenceMonth: "2024-03-01"}

	first, err := svc.GenerateInvoices(context.Background(), "owner-1", req)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 0, first.Skipped)
	assert.Empty(t, first.Errors)

	second, err := svc.GenerateInvoices(context.Background(), "owner-1", req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)

	var invoices []model.Invoice
	require.NoError(t, db.Find(&invoices).Error)
	require.Len(t, invoices, 1)

	invoice := invoices[0]
	assert.Equal(t, "FAT-202403-0001", invoice.InvoiceNumber)
	assert.Equal(t, "2024-03", invoice.ReferenceMonth)
	assert.Equal(t, date(2024, time.March, 10), invoice.DueDate)
	assert.Equal(t, model.InvoiceStatusPending, invoice.Status)
	assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(1600)), "rent 1500 + installment 100, got %s", invoice.TotalAmount)
	require.NotNil(t, invoice.GuaranteeInstallmentIndex)
	assert.Equal(t, 3, *invoice.GuaranteeInstallmentIndex)

	var logs []model.InvoiceLog
	require.NoError(t, db.Where("invoice_id = ?", invoice.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "created", logs[0].Action)
	assert.Equal(t, "owner-1", logs[0].Actor)

	assert.Len(t, notifier.invoiceIDs, 1)
}

func TestGenerateInvoicesPrePaidDueDate(t *testing.T) {
	db := setupTestDB(t)
	contract := seedContract(t, db, "c1", "owner-1", model.ContractStatusActive)
	contract.PrePaid = true
	require.NoError(t, db.Save(contract).Error)

	svc := newBillingService(db, &recordingNotifier{}, nil)
	_, err := svc.GenerateInvoices(context.Background(), "owner-1", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeAll,
		ReferenceMonth: "2024-03-01",
	})
	require.NoError(t, err)

	var invoice model.Invoice
	require.NoError(t, db.First(&invoice).Error)
	assert.Equal(t, date(2024, time.April, 10), invoice.DueDate)
	assert.Equal(t, "2024-03", invoice.ReferenceMonth, "reference month stays the service month")
}

func TestGenerateInvoicesPartialFailure(t *testing.T) {
	db := setupTestDB(t)
	seedContract(t, db, "A", "owner-1", model.ContractStatusActive)
	seedContract(t, db, "B", "owner-1", model.ContractStatusActive)
	seedContract(t, db, "C", "owner-1", model.ContractStatusActive)

	invoiceRepo := &failingInvoiceRepo{
		InvoiceRepository: repository.NewInvoiceRepository(db),
		failContractID:    "B",
	}
	svc := newBillingService(db, &recordingNotifier{}, invoiceRepo)

	resp, err := svc.GenerateInvoices(context.Background(), "owner-1", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeAll,
		ReferenceMonth: "2024-03-01",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 0, resp.Skipped)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "B", resp.Errors[0].ContractID)

	var contractIDs []string
	require.NoError(t, db.Model(&model.Invoice{}).Order("contract_id").Pluck("contract_id", &contractIDs).Error)
	assert.Equal(t, []string{"A", "C"}, contractIDs)
}

func TestGenerateInvoicesNumbersSequentialWithinRun(t *testing.T) {
	db := setupTestDB(t)
	seedContract(t, db, "A", "owner-1", model.ContractStatusActive)
	seedContract(t, db, "B", "owner-1", model.ContractStatusActive)
	seedContract(t, db, "C", "owner-1", model.ContractStatusActive)

	svc := newBillingService(db, &recordingNotifier{}, nil)
	resp, err := svc.GenerateInvoices(context.Background(), "owner-1", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeAll,
		ReferenceMonth: "2024-03-01",
	})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Created)

	var numbers []string
	require.NoError(t, db.Model(&model.Invoice{}).Order("invoice_number").Pluck("invoice_number", &numbers).Error)
	assert.Equal(t, []string{"FAT-202403-0001", "FAT-202403-0002", "FAT-202403-0003"}, numbers)
}

func TestGenerateInvoicesSingleMode(t *testing.T) {
	db := setupTestDB(t)
	seedContract(t, db, "c1", "owner-1", model.ContractStatusActive)
	seedContract(t, db, "c2", "owner-1", model.ContractStatusActive)

	svc := newBillingService(db, &recordingNotifier{}, nil)
	resp, err := svc.GenerateInvoices(context.Background(), "owner-1", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeSingle,
		ContractID:     "c1",
		ReferenceMonth: "2024-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Created)

	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "only the named contract is invoiced")
}

func TestGenerateInvoicesSingleModeErrors(t *testing.T) {
	db := setupTestDB(t)
	seedContract(t, db, "c1", "owner-1", model.ContractStatusActive)

	svc := newBillingService(db, &recordingNotifier{}, nil)

	_, err := svc.GenerateInvoices(context.Background(), "owner-1", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeSingle,
		ReferenceMonth: "2024-03-01",
	})
	assert.ErrorIs(t, err, ErrContractRequired)

	_, err = svc.GenerateInvoices(context.Background(), "owner-1", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeSingle,
		ContractID:     "missing",
		ReferenceMonth: "2024-03-01",
	})
	assert.ErrorIs(t, err, ErrContractNotFound)

	// another owner's contract is invisible
	_, err = svc.GenerateInvoices(context.Background(), "owner-2", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeSingle,
		ContractID:     "c1",
		ReferenceMonth: "2024-03-01",
	})
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestGenerateInvoicesExcludesInactiveContracts(t *testing.T) {
	db := setupTestDB(t)
	seedContract(t, db, "c1", "owner-1", model.ContractStatusActive)
	seedContract(t, db, "c2", "owner-1", model.ContractStatusCancelled)
	seedContract(t, db, "c3", "owner-1", model.ContractStatusExpired)

	svc := newBillingService(db, &recordingNotifier{}, nil)
	resp, err := svc.GenerateInvoices(context.Background(), "owner-1", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeAll,
		ReferenceMonth: "2024-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Created)

	// single mode on a cancelled contract is a silent no-op, not an error
	resp, err = svc.GenerateInvoices(context.Background(), "owner-1", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeSingle,
		ContractID:     "c2",
		ReferenceMonth: "2024-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Created)
	assert.Equal(t, 0, resp.Skipped)
	assert.Empty(t, resp.Errors)
}

func TestGenerateInvoicesPreconditions(t *testing.T) {
	db := setupTestDB(t)
	svc := newBillingService(db, &recordingNotifier{}, nil)

	_, err := svc.GenerateInvoices(context.Background(), "", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeAll,
		ReferenceMonth: "2024-03-01",
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.GenerateInvoices(context.Background(), "owner-1", &dto.GenerateInvoicesRequest{
		Mode:           dto.GenerateModeAll,
		ReferenceMonth: "not-a-date",
	})
	assert.ErrorIs(t, err, ErrInvalidReferenceMonth)
}
