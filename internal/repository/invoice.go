package repository

import (
	"context"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"

	"gorm.io/gorm"
)

type InvoiceRepository interface {
	ExistsForMonth(ctx context.Context, contractID, referenceMonth string) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, invoice *model.Invoice) error
	AppendLog(ctx context.Context, tx *gorm.DB, log *model.InvoiceLog) error
	FindByID(ctx context.Context, invoiceID string) (*model.Invoice, error)
}

type invoiceRepoImpl struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepoImpl{
		db: db,
	}
}

// ExistsForMonth is the pre-write idempotency check. It only cuts down on
// duplicate insert attempts; the unique index on (contract_id,
// reference_month) is what actually prevents duplicates.
func (r *invoiceRepoImpl) ExistsForMonth(ctx context.Context, contractID, referenceMonth string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("contract_id = ?", contractID).
		Where("reference_month = ?", referenceMonth).
		Count(&count).Error

	return count > 0, err
}

func (r *invoiceRepoImpl) Create(ctx context.Context, tx *gorm.DB, invoice *model.Invoice) error {
	return tx.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepoImpl) AppendLog(ctx context.Context, tx *gorm.DB, log *model.InvoiceLog) error {
	return tx.WithContext(ctx).Create(log).Error
}

func (r *invoiceRepoImpl) FindByID(ctx context.Context, invoiceID string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Logs").
		Where("id = ?", invoiceID).
		First(&invoice).
		Error

	if err != nil {
		return nil, err
	}

	return &invoice, nil
}
