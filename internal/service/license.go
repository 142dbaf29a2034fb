package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LicenseExtension reports how a user's license clock moved.
type LicenseExtension struct {
	PreviousExpiration *time.Time
	NewExpiration      time.Time
}

// LicenseService extends a user's license after a confirmed payment. It has
// no idempotency key of its own: the webhook ingestor's payment dedup
// guarantees it runs at most once per payment.
type LicenseService interface {
	ExtendLicense(ctx context.Context, tx *gorm.DB, user *model.User, plan *model.Plan, paymentID string) (*LicenseExtension, error)
}

type licenseServiceImpl struct {
	logger       *logrus.Logger
	userRepo     repository.UserRepository
	auditRepo    repository.LicenseAuditRepository
	checkoutRepo repository.CheckoutSessionRepository
}

func NewLicenseService(
	logger *logrus.Logger,
	userRepo repository.UserRepository,
	auditRepo repository.LicenseAuditRepository,
	checkoutRepo repository.CheckoutSessionRepository,
) LicenseService {
	return &licenseServiceImpl{
		logger:       logger,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		checkoutRepo: checkoutRepo,
	}
}

// ExtendLicense adds the plan's duration on top of the current expiration
// when the license is still active, or on top of "now" when it has lapsed.
// A lapsed account never compounds from its stale past date.
func (s *licenseServiceImpl) ExtendLicense(ctx context.Context, tx *gorm.DB, user *model.User, plan *model.Plan, paymentID string) (*LicenseExtension, error) {
	now := time.Now()

	base := now
	if user.LicenseExpiresAt != nil && user.LicenseExpiresAt.After(now) {
		base = *user.LicenseExpiresAt
	}
	newExpiration := base.AddDate(0, 0, plan.DaysDuration)

	if err := s.userRepo.UpdateLicenseExpiration(ctx, tx, user.ID, newExpiration); err != nil {
		return nil, fmt.Errorf("update license expiration: %w", err)
	}

	err := s.auditRepo.Append(ctx, tx, &model.LicenseAudit{
		ID:                 uuid.NewString(),
		UserID:             user.ID,
		PaymentID:          paymentID,
		PreviousExpiration: user.LicenseExpiresAt,
		NewExpiration:      newExpiration,
		Source:             "webhook:cakto",
	})
	if err != nil {
		return nil, fmt.Errorf("append license audit record: %w", err)
	}

	s.closeCheckoutSession(ctx, tx, user.ID, plan.ID)

	return &LicenseExtension{
		PreviousExpiration: user.LicenseExpiresAt,
		NewExpiration:      newExpiration,
	}, nil
}

// closeCheckoutSession advances the latest open session for (user, plan) to
// paid. Best-effort: a missing session is expected when the purchase did
// not start from a checkout flow.
func (s *licenseServiceImpl) closeCheckoutSession(ctx context.Context, tx *gorm.DB, userID, planID string) {
	session, err := s.checkoutRepo.FindLatestOpen(ctx, tx, userID, planID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"plan_id": planID,
		}).Debug("no open checkout session to close")
		return
	}
	if err != nil {
		s.logger.WithError(err).Warn("lookup checkout session")
		return
	}

	if err := s.checkoutRepo.MarkPaid(ctx, tx, session.ID); err != nil {
		s.logger.WithField("session_id", session.ID).
			WithError(err).
			Warn("mark checkout session paid")
	}
}
