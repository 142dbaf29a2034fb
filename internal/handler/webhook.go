package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type WebhookHandler struct {
	webhookService service.WebhookService
	logger         *logrus.Logger
}

func NewWebhookHandler(webhookService service.WebhookService, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		logger:         logger,
	}
}

// CaktoWebhook handles POST /api/webhooks/cakto. The provider retries on
// any non-2xx, so once an event is durably deduped-or-recorded this must
// answer 200. This is a public endpoint: error responses stay generic and
// never carry internal detail.
func (h *WebhookHandler) CaktoWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	var event model.CaktoWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.webhookService.IngestPaymentEvent(ctx, &event, body)
	switch {
	case errors.Is(err, service.ErrInvalidSecret):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid secret")
	case errors.Is(err, service.ErrInvalidEvent):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	case errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "unknown payer")
	case err != nil:
		h.logger.WithError(err).Error("webhook ingestion failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "processing failed")
	}

	return c.JSON(http.StatusOK, result)
}
