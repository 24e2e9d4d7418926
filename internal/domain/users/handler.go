package users

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicportal/portal/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, requireIdentity, requireAdmin echo.MiddlewareFunc) {
	api.POST("/users", h.Register)
	api.GET("/users/admin/:email", h.IsAdmin, requireIdentity)

	api.GET("/users", h.List, requireAdmin)
	api.PUT("/users/admin/:id", h.MakeAdmin, requireAdmin)
}

func (h *Handler) Register(c echo.Context) error {
	var u User
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.Register(c.Request().Context(), &u)
	if err != nil {
		return httpError(err)
	}
	if !created {
		return c.JSON(http.StatusOK, echo.Map{"alreadyAvailable": true})
	}
	return c.JSON(http.StatusCreated, echo.Map{"acknowledged": true, "insertedId": u.ID})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	pagination.WriteTotal(c, total)
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) IsAdmin(c echo.Context) error {
	ok, err := h.svc.IsAdmin(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"isAdmin": ok})
}

func (h *Handler) MakeAdmin(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	if err := h.svc.MakeAdmin(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"acknowledged": true, "matchedCount": 1, "modifiedCount": 1})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}
