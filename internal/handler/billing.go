package handler

import (
	"errors"
	"net/http"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/dto"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/service"

	"github.com/labstack/echo/v4"
)

type BillingHandler struct {
	billingService service.BillingService
}

func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

// GenerateInvoices handles POST /api/invoices/generate. Any outcome that is
// not a precondition failure returns 200 with the batch summary, so the UI
// can report partial success.
func (h *BillingHandler) GenerateInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, _ := c.Get("user_id").(string)

	var req dto.GenerateInvoicesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.billingService.GenerateInvoices(ctx, ownerID, &req)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "missing caller identity")
	case errors.Is(err, service.ErrInvalidReferenceMonth), errors.Is(err, service.ErrContractRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrContractNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, result)
}
