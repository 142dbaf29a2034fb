package repository

import (
	"context"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	FindByEventID(ctx context.Context, eventID string) (*model.Payment, error)
	Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) FindByEventID(ctx context.Context, eventID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&payment).
		Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// Create relies on the unique index on event_id: a concurrent duplicate
// delivery fails with gorm.ErrDuplicatedKey, which the ingestor treats as
// the already-recorded signal.
func (r *paymentRepoImpl) Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}
