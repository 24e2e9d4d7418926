package catalog

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicportal/portal/pkg/money"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the catalog admin endpoints. GET /appointmentOptions
// is served by the booking package since it subtracts booked slots.
func (h *Handler) RegisterRoutes(api *echo.Group, requireIdentity, requireAdmin echo.MiddlewareFunc) {
	api.GET("/appointmentSpecialty", h.ListSpecialties, requireIdentity)

	api.POST("/appointmentOptions", h.CreateOption, requireAdmin)
	api.DELETE("/appointmentOptions/:id", h.DeleteOption, requireAdmin)
}

func (h *Handler) ListSpecialties(c echo.Context) error {
	items, err := h.svc.Names(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateOption(c echo.Context) error {
	var o TreatmentOption
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &o); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"acknowledged": true, "insertedId": o.ID})
}

func (h *Handler) DeleteOption(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"acknowledged": true, "deletedCount": 1})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateName):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalid), errors.Is(err, money.ErrInvalidAmount):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}
