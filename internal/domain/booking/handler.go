package booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicportal/portal/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, requireIdentity echo.MiddlewareFunc) {
	api.GET("/appointmentOptions", h.Availability)
	api.GET("/bookings/:id", h.GetBooking)
	api.GET("/bookings", h.ListBookings, requireIdentity)
	api.POST("/bookings", h.CreateBooking, requireIdentity)
}

func (h *Handler) Availability(c echo.Context) error {
	options, err := h.svc.Availability(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, options)
}

// ListBookings only answers for the caller's own email.
func (h *Handler) ListBookings(c echo.Context) error {
	email := c.QueryParam("email")
	if !auth.IsSelf(c.Request().Context(), email) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
	}
	items, err := h.svc.ListForPatient(c.Request().Context(), strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// CreateBooking books under the caller's email. A body email naming someone
// else is refused.
func (h *Handler) CreateBooking(c echo.Context) error {
	var b Booking
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	id, _ := auth.IdentityFromContext(c.Request().Context())
	if strings.TrimSpace(b.Email) == "" {
		b.Email = id.Email
	} else if !auth.IsSelf(c.Request().Context(), b.Email) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
	}

	if err := h.svc.Submit(c.Request().Context(), &b); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"acknowledged": true, "insertedId": b.ID})
}

func (h *Handler) GetBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func httpError(err error) error {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusConflict, conflict.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}
