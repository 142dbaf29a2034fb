package repository

import (
	"context"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"

	"gorm.io/gorm"
)

type CheckoutSessionRepository interface {
	FindLatestOpen(ctx context.Context, tx *gorm.DB, userID, planID string) (*model.CheckoutSession, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, sessionID string) error
}

type checkoutSessionRepoImpl struct {
	db *gorm.DB
}

func NewCheckoutSessionRepository(db *gorm.DB) CheckoutSessionRepository {
	return &checkoutSessionRepoImpl{
		db: db,
	}
}

// FindLatestOpen returns the most recent non-terminal session for
// (user, plan), or gorm.ErrRecordNotFound when every session is paid.
func (r *checkoutSessionRepoImpl) FindLatestOpen(ctx context.Context, tx *gorm.DB, userID, planID string) (*model.CheckoutSession, error) {
	var session model.CheckoutSession
	err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("plan_id = ?", planID).
		Where("status IN ?", []string{model.CheckoutStatusCreated, model.CheckoutStatusRedirected}).
		Order("created_at DESC").
		First(&session).
		Error

	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *checkoutSessionRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, sessionID string) error {
	return tx.WithContext(ctx).Model(&model.CheckoutSession{}).
		Where("id = ?", sessionID).
		Where("status IN ?", []string{model.CheckoutStatusCreated, model.CheckoutStatusRedirected}).
		Update("status", model.CheckoutStatusPaid).
		Error
}
