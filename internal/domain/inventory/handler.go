package inventory

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dentiq/dentiq/internal/platform/auth"
	"github.com/dentiq/dentiq/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDentist, auth.RoleAssistant, auth.RoleReception))
	read.GET("/inventory/items", h.ListItems)
	read.GET("/inventory/items/:id", h.GetItem)
	read.GET("/inventory/items/:id/stock", h.GetStock)
	read.GET("/inventory/items/:id/movements", h.ListMovements)
	read.GET("/inventory/low-stock", h.LowStock)
	read.GET("/inventory/expiring", h.ExpiringSoon)

	write := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleAssistant))
	write.POST("/inventory/items", h.CreateItem)
	write.PUT("/inventory/items/:id", h.UpdateItem)
	write.DELETE("/inventory/items/:id", h.DeleteItem)
	write.POST("/inventory/items/:id/movements", h.RecordMovement)
}

func (h *Handler) CreateItem(c echo.Context) error {
	var it Item
	if err := c.Bind(&it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateItem(c.Request().Context(), &it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, it)
}

func (h *Handler) GetItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	it, err := h.svc.GetItem(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) ListItems(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListItems(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var it Item
	if err := c.Bind(&it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it.ID = id
	if err := h.svc.UpdateItem(c.Request().Context(), &it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) DeleteItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteItem(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RecordMovement(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var mv Movement
	if err := c.Bind(&mv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mv.ItemID = id
	if err := h.svc.RecordMovement(c.Request().Context(), &mv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, mv)
}

func (h *Handler) ListMovements(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListMovements(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	stock, err := h.svc.CurrentStock(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"stock": stock})
}

func (h *Handler) LowStock(c echo.Context) error {
	items, err := h.svc.LowStock(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ExpiringSoon(c echo.Context) error {
	var window time.Duration
	if days := c.QueryParam("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid days")
		}
		window = time.Duration(n) * 24 * time.Hour
	}
	items, err := h.svc.ExpiringSoon(c.Request().Context(), window)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
