package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/dto"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const providerCakto = "cakto"

// planAmountToleranceBps is how far (in basis points) a payment amount may
// sit from a plan's price and still be considered a match. Covers provider
// rounding and fee differences.
const planAmountToleranceBps = 100 // 1%

type WebhookService interface {
	IngestPaymentEvent(ctx context.Context, event *model.CaktoWebhookEvent, rawBody []byte) (*dto.WebhookResponse, error)
}

type webhookServiceImpl struct {
	db             *gorm.DB
	logger         *logrus.Logger
	webhookSecret  string
	paymentRepo    repository.PaymentRepository
	userRepo       repository.UserRepository
	planRepo       repository.PlanRepository
	licenseService LicenseService
}

func NewWebhookService(
	db *gorm.DB,
	logger *logrus.Logger,
	webhookSecret string,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	licenseService LicenseService,
) WebhookService {
	return &webhookServiceImpl{
		db:             db,
		logger:         logger,
		webhookSecret:  webhookSecret,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		planRepo:       planRepo,
		licenseService: licenseService,
	}
}

// IngestPaymentEvent records one provider payment event exactly once per
// idempotency key and, for a paid event matched to a plan, extends the
// payer's license in the same transaction. A repeat delivery of an already
// recorded event short-circuits before any side effect.
func (s *webhookServiceImpl) IngestPaymentEvent(ctx context.Context, event *model.CaktoWebhookEvent, rawBody []byte) (*dto.WebhookResponse, error) {
	if s.webhookSecret != "" && event.Secret != s.webhookSecret {
		return nil, ErrInvalidSecret
	}

	eventID := event.EventID
	if eventID == "" {
		if event.Data.TxID == "" {
			return nil, ErrInvalidEvent
		}
		eventID = fmt.Sprintf("%s:%s", providerCakto, event.Data.TxID)
	}

	existing, err := s.paymentRepo.FindByEventID(ctx, eventID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup payment by event id: %w", err)
	}
	if existing != nil {
		return &dto.WebhookResponse{PaymentID: existing.ID, Deduped: true}, nil
	}

	user, err := s.userRepo.FindByEmail(ctx, event.Data.Customer.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve payer by email: %w", err)
	}

	plan := s.resolvePlan(ctx, event)
	status := paymentStatusFromEventType(event.Type)

	payment := &model.Payment{
		ID:           uuid.NewString(),
		EventID:      eventID,
		ExternalTxID: event.Data.TxID,
		UserID:       user.ID,
		AmountCents:  event.Data.AmountCents,
		Currency:     event.Data.Currency,
		Status:       status,
		Provider:     providerCakto,
		RawPayload:   string(rawBody),
	}
	if plan != nil {
		payment.PlanID = &plan.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return err
		}

		if status != model.PaymentStatusPaid {
			return nil
		}
		if plan == nil {
			// recorded but grants nothing; needs a plan to size the extension
			s.logger.WithFields(logrus.Fields{
				"event_id":     eventID,
				"amount_cents": event.Data.AmountCents,
			}).Warn("paid event matched no plan, no license extension granted")
			return nil
		}

		extension, err := s.licenseService.ExtendLicense(ctx, tx, user, plan, payment.ID)
		if err != nil {
			return fmt.Errorf("extend license: %w", err)
		}

		s.logger.WithFields(logrus.Fields{
			"user_id":        user.ID,
			"plan":           plan.Name,
			"new_expiration": extension.NewExpiration,
		}).Info("license extended")
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost the insert race against a near-simultaneous redelivery;
		// report the row that won
		winner, findErr := s.paymentRepo.FindByEventID(ctx, eventID)
		if findErr != nil {
			return nil, fmt.Errorf("lookup deduped payment: %w", findErr)
		}
		return &dto.WebhookResponse{PaymentID: winner.ID, Deduped: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist payment: %w", err)
	}

	return &dto.WebhookResponse{PaymentID: payment.ID, Deduped: false}, nil
}

// resolvePlan matches by exact name first, then falls back to the closest
// active plan within the amount tolerance. A named plan whose price is off
// by more than the tolerance is kept anyway; the amount from the provider
// is trusted and the linkage only logged as suspect.
func (s *webhookServiceImpl) resolvePlan(ctx context.Context, event *model.CaktoWebhookEvent) *model.Plan {
	amountCents := event.Data.AmountCents

	if event.Data.Plan != "" {
		plan, err := s.planRepo.FindByName(ctx, event.Data.Plan)
		if err == nil {
			if !withinTolerance(amountCents, plan.PriceCents) {
				s.logger.WithFields(logrus.Fields{
					"plan":         plan.Name,
					"plan_price":   plan.PriceCents,
					"amount_cents": amountCents,
				}).Warn("payment amount outside plan price tolerance")
			}
			return plan
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.WithError(err).Warn("plan lookup by name")
		}
	}

	plans, err := s.planRepo.FindActive(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("load plans for amount matching")
		return nil
	}

	var best *model.Plan
	var bestDelta int64
	for _, plan := range plans {
		if !withinTolerance(amountCents, plan.PriceCents) {
			continue
		}
		delta := amountCents - plan.PriceCents
		if delta < 0 {
			delta = -delta
		}
		if best == nil || delta < bestDelta {
			best = plan
			bestDelta = delta
		}
	}

	return best
}

func withinTolerance(amountCents, priceCents int64) bool {
	delta := amountCents - priceCents
	if delta < 0 {
		delta = -delta
	}

	return delta*10000 <= priceCents*planAmountToleranceBps
}

func paymentStatusFromEventType(eventType string) string {
	switch eventType {
	case "payment.paid":
		return model.PaymentStatusPaid
	case "payment.refunded":
		return model.PaymentStatusRefunded
	default:
		return model.PaymentStatusPending
	}
}
