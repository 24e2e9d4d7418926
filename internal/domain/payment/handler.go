package payment

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicportal/portal/internal/platform/gateway"
	"github.com/clinicportal/portal/pkg/money"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/create-payment-intent", h.CreatePaymentIntent)
	api.POST("/payments", h.ConfirmPayment)
}

func (h *Handler) CreatePaymentIntent(c echo.Context) error {
	var in IntentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	intent, err := h.svc.CreateIntent(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"clientSecret": intent.ClientSecret})
}

func (h *Handler) ConfirmPayment(c echo.Context) error {
	var in Confirmation
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	rec, err := h.svc.Confirm(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"acknowledged": true, "insertedId": rec.ID})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrBookingNotFound.Error())
	case errors.Is(err, ErrInvalid), errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, gateway.ErrCardTokenRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, gateway.ErrUpstream):
		return echo.NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
	}
	return err
}
