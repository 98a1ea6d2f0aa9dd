package intake

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rcm/rcm/internal/platform/auth"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	upload := api.Group("", auth.RequireRole("admin", "manager", "biller"))
	upload.POST("/claims/bulk-upload", h.BulkUpload)
}

// BulkUpload accepts a multipart form with an xlsx `file`, a `mapping`
// JSON field and the `client_id` / `sow_id` scope.
func (h *Handler) BulkUpload(c echo.Context) error {
	clientID, err := uuid.Parse(c.FormValue("client_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid client_id")
	}
	sowID, err := uuid.Parse(c.FormValue("sow_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid sow_id")
	}

	mappingRaw := c.FormValue("mapping")
	if mappingRaw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "mapping is required")
	}
	mapping, err := ParseMapping([]byte(mappingRaw), h.logger)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file could not be opened")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file could not be read")
	}

	ctx := c.Request().Context()
	in := UploadInput{
		FileData:  data,
		Mapping:   mapping,
		ClientID:  clientID,
		SOWID:     sowID,
		CreatedBy: auth.UserIDFromContext(ctx),
	}
	if raw := auth.CompanyIDFromContext(ctx); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			in.CompanyID = id
		}
	}
	if in.CompanyID == uuid.Nil {
		if id, err := uuid.Parse(c.FormValue("company_id")); err == nil {
			in.CompanyID = id
		}
	}

	result, err := h.svc.Process(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrScopeNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "sow not found for client")
		case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrNoDataRows):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNoValidRows):
			return c.JSON(http.StatusBadRequest, result)
		default:
			var pe *PersistenceError
			if errors.As(err, &pe) {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to persist claims")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, result)
}
