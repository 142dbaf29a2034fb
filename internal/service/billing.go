package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/client"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/dto"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const invoiceNumberPrefix = "FAT"

type BillingService interface {
	GenerateInvoices(ctx context.Context, ownerID string, req *dto.GenerateInvoicesRequest) (*dto.GenerateInvoicesResponse, error)
}

type billingServiceImpl struct {
	db           *gorm.DB
	logger       *logrus.Logger
	notifier     client.Notifier
	contractRepo repository.ContractRepository
	invoiceRepo  repository.InvoiceRepository
	sequenceRepo repository.SequenceRepository
}

func NewBillingService(
	db *gorm.DB,
	logger *logrus.Logger,
	notifier client.Notifier,
	contractRepo repository.ContractRepository,
	invoiceRepo repository.InvoiceRepository,
	sequenceRepo repository.SequenceRepository,
) BillingService {
	return &billingServiceImpl{
		db:           db,
		logger:       logger,
		notifier:     notifier,
		contractRepo: contractRepo,
		invoiceRepo:  invoiceRepo,
		sequenceRepo: sequenceRepo,
	}
}

// GenerateInvoices creates the invoices for one reference month, for every
// active contract of the owner or for a single named contract. Contracts
// are processed independently: one contract's persistence failure is
// reported in the summary and does not abort the batch, and a contract
// whose invoice for the month already exists is counted as skipped.
func (s *billingServiceImpl) GenerateInvoices(ctx context.Context, ownerID string, req *dto.GenerateInvoicesRequest) (*dto.GenerateInvoicesResponse, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}

	refMonth, err := parseReferenceMonth(req.ReferenceMonth)
	if err != nil {
		return nil, ErrInvalidReferenceMonth
	}

	contracts, err := s.selectContracts(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	resp := &dto.GenerateInvoicesResponse{
		Success: true,
		Errors:  []dto.InvoiceError{},
	}

	for _, contract := range contracts {
		invoice, created, err := s.generateOne(ctx, contract, refMonth, req.AutoBilling)
		switch {
		case err != nil:
			s.logger.WithFields(logrus.Fields{
				"contract_id":     contract.ID,
				"reference_month": refMonth.Format("2006-01"),
			}).WithError(err).Error("invoice generation failed for contract")

			resp.Errors = append(resp.Errors, dto.InvoiceError{
				ContractID: contract.ID,
				Error:      err.Error(),
			})
		case !created:
			resp.Skipped++
		default:
			resp.Created++
			if notifyErr := s.notifier.InvoiceCreated(ctx, invoice); notifyErr != nil {
				s.logger.WithField("invoice_id", invoice.ID).
					WithError(notifyErr).
					Warn("invoice created but notification dispatch failed")
			}
		}
	}

	return resp, nil
}

func (s *billingServiceImpl) selectContracts(ctx context.Context, ownerID string, req *dto.GenerateInvoicesRequest) ([]*model.Contract, error) {
	if req.Mode == dto.GenerateModeSingle {
		if req.ContractID == "" {
			return nil, ErrContractRequired
		}

		contract, err := s.contractRepo.FindByIDAndOwner(ctx, req.ContractID, ownerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load contract: %w", err)
		}

		// non-active contracts are excluded, never invoiced
		if contract.Status != model.ContractStatusActive {
			return nil, nil
		}

		return []*model.Contract{contract}, nil
	}

	contracts, err := s.contractRepo.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load active contracts: %w", err)
	}

	return contracts, nil
}

// generateOne persists the invoice for (contract, month). Returns
// created=false when the invoice already exists, whether detected by the
// pre-check or by the unique index rejecting a concurrent duplicate insert.
func (s *billingServiceImpl) generateOne(ctx context.Context, contract *model.Contract, refMonth time.Time, autoBilling bool) (*model.Invoice, bool, error) {
	monthKey := refMonth.Format("2006-01")

	exists, err := s.invoiceRepo.ExistsForMonth(ctx, contract.ID, monthKey)
	if err != nil {
		return nil, false, fmt.Errorf("check existing invoice: %w", err)
	}
	if exists {
		return nil, false, nil
	}

	installment, installmentIndex := GuaranteeInstallment(contract.GuaranteeValue, contract.StartDate, refMonth)

	invoice := &model.Invoice{
		ID:                   uuid.NewString(),
		ContractID:           contract.ID,
		ReferenceMonth:       monthKey,
		OwnerID:              contract.OwnerID,
		IssueDate:            time.Now(),
		DueDate:              DueDate(refMonth, contract.PaymentDay, contract.PrePaid),
		RentalAmount:         contract.RentalValue,
		GuaranteeInstallment: installment,
		TotalAmount:          contract.RentalValue.Add(installment),
		Status:               model.InvoiceStatusPending,
	}
	if installmentIndex > 0 {
		invoice.GuaranteeInstallmentIndex = &installmentIndex
	}

	prefix := fmt.Sprintf("%s-%s", invoiceNumberPrefix, refMonth.Format("200601"))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.sequenceRepo.Next(ctx, tx, contract.OwnerID, prefix)
		if err != nil {
			return fmt.Errorf("next invoice number: %w", err)
		}
		invoice.InvoiceNumber = fmt.Sprintf("%s-%04d", prefix, seq)

		if err := s.invoiceRepo.Create(ctx, tx, invoice); err != nil {
			return err
		}

		return s.invoiceRepo.AppendLog(ctx, tx, &model.InvoiceLog{
			InvoiceID:     invoice.ID,
			Action:        "created",
			Actor:         contract.OwnerID,
			AutoGenerated: autoBilling,
		})
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent run won the insert race; same outcome as the pre-check
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("persist invoice: %w", err)
	}

	return invoice, true, nil
}

// parseReferenceMonth accepts a YYYY-MM-DD date and truncates it to the
// first of its month.
func parseReferenceMonth(raw string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}
