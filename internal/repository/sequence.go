package repository

import (
	"context"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SequenceRepository interface {
	Next(ctx context.Context, tx *gorm.DB, ownerID, prefix string) (int64, error)
}

type sequenceRepoImpl struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepoImpl{
		db: db,
	}
}

// Next increments the (owner, prefix) counter in place and returns the new
// value. The in-place UPDATE takes the row lock, so two concurrent runs for
// the same month serialize on it instead of both observing the same count;
// tx must be an open transaction so the lock covers the read-back.
func (r *sequenceRepoImpl) Next(ctx context.Context, tx *gorm.DB, ownerID, prefix string) (int64, error) {
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.InvoiceSequence{OwnerID: ownerID, Prefix: prefix}).
		Error
	if err != nil {
		return 0, err
	}

	err = tx.WithContext(ctx).Model(&model.InvoiceSequence{}).
		Where("owner_id = ? AND prefix = ?", ownerID, prefix).
		Update("last_value", gorm.Expr("last_value + 1")).
		Error
	if err != nil {
		return 0, err
	}

	var seq model.InvoiceSequence
	err = tx.WithContext(ctx).
		Where("owner_id = ? AND prefix = ?", ownerID, prefix).
		First(&seq).
		Error
	if err != nil {
		return 0, err
	}

	return seq.LastValue, nil
}
