package smiledesign

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dentiq/dentiq/internal/platform/auth"
	"github.com/dentiq/dentiq/pkg/pagination"
	"github.com/dentiq/dentiq/pkg/smile"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDentist, auth.RoleAssistant))
	read.GET("/analyses", h.ListAnalyses)
	read.GET("/analyses/:id", h.GetAnalysis)
	read.GET("/analyses/:id/overlay.svg", h.GetOverlay)
	read.GET("/analyses/:id/summary", h.GetSummary)

	write := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDentist))
	write.POST("/analyses", h.CreateAnalysis)
	write.DELETE("/analyses/:id", h.DeleteAnalysis)
	write.PUT("/analyses/:id/boxes", h.UpdateBoxes)
	write.POST("/analyses/:id/photo", h.AttachPhoto)
	write.POST("/analyses/:id/detect", h.DetectTeeth)
}

func (h *Handler) CreateAnalysis(c echo.Context) error {
	var a Analysis
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAnalyses(c echo.Context) error {
	pid, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), pid, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateBoxes(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var boxes []smile.ToothBox
	if err := c.Bind(&boxes); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.UpdateBoxes(c.Request().Context(), id, boxes)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	}
	return c.JSON(http.StatusOK, a)
}

// AttachPhoto accepts either a multipart "photo" field or a raw body with a
// Content-Type header.
func (h *Handler) AttachPhoto(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if file, err := c.FormFile("photo"); err == nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		defer src.Close()
		a, err := h.svc.AttachPhoto(c.Request().Context(), id, file.Header.Get("Content-Type"), src)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, a)
	}

	a, err := h.svc.AttachPhoto(c.Request().Context(), id, c.Request().Header.Get("Content-Type"), c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DetectTeeth(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Detect(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) GetOverlay(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	width, height := 800, 600
	if v := c.QueryParam("width"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			width = n
		}
	}
	if v := c.QueryParam("height"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			height = n
		}
	}
	svg, err := h.svc.Overlay(c.Request().Context(), id, width, height)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	}
	return c.Blob(http.StatusOK, "image/svg+xml", svg)
}

func (h *Handler) GetSummary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sum, err := h.svc.Summary(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	}
	return c.JSON(http.StatusOK, sum)
}
