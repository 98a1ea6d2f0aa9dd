package task

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
	write.POST("/tasks", h.Create)
	write.DELETE("/tasks/:id", h.Delete)

	// Billers update their own tasks as they work the queue.
	update := api.Group("", auth.RequireRole("admin", "manager", "biller"))
	update.PUT("/tasks/:id", h.Update)

	read := api.Group("", auth.RequireRole("admin", "manager", "biller", "analyst"))
	read.GET("/tasks/:id", h.Get)
	read.GET("/employees/:assigneeId/tasks", h.ListByAssignee)
	read.GET("/sows/:sowId/tasks", h.ListBySOW)
}

func (h *Handler) Create(c echo.Context) error {
	var t Task
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if t.CompanyID == uuid.Nil {
		if raw := auth.CompanyIDFromContext(c.Request().Context()); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				t.CompanyID = id
			}
		}
	}
	if err := h.svc.Create(c.Request().Context(), &t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	t, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) ListByAssignee(c echo.Context) error {
	assigneeID, err := uuid.Parse(c.Param("assigneeId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid assignee id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByAssignee(c.Request().Context(), assigneeID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListBySOW(c echo.Context) error {
	sowID, err := uuid.Parse(c.Param("sowId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid sow id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListBySOW(c.Request().Context(), sowID, pg.Limit, pg.Offset)
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
	var t Task
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = id
	if err := h.svc.Update(c.Request().Context(), &t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, t)
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
