package sow

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rcm/rcm/internal/platform/auth"
	"github.com/rcm/rcm/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := api.Group("", auth.RequireRole("admin", "manager"))
	write.POST("/sows", h.Create)
	write.PUT("/sows/:id", h.Update)
	write.DELETE("/sows/:id", h.Delete)

	read := api.Group("", auth.RequireRole("admin", "manager", "biller", "analyst"))
	read.GET("/sows/:id", h.Get)
	read.GET("/clients/:clientId/sows", h.ListByClient)
}

func (h *Handler) Create(c echo.Context) error {
	var sw SOW
	if err := c.Bind(&sw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if sw.CompanyID == uuid.Nil {
		if raw := auth.CompanyIDFromContext(c.Request().Context()); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				sw.CompanyID = id
			}
		}
	}
	if err := h.svc.Create(c.Request().Context(), &sw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, sw)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sw, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "sow not found")
	}
	return c.JSON(http.StatusOK, sw)
}

func (h *Handler) ListByClient(c echo.Context) error {
	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByClient(c.Request().Context(), clientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var sw SOW
	if err := c.Bind(&sw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sw.ID = id
	if err := h.svc.Update(c.Request().Context(), &sw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, sw)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
