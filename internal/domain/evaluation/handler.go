package evaluation

import (
	"net/http"

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
	read.GET("/evaluations", h.ListEvaluations)
	read.GET("/evaluations/:id", h.GetEvaluation)
	read.GET("/evaluations/:id/teeth", h.ListTeeth)

	write := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDentist, auth.RoleAssistant))
	write.POST("/evaluations", h.CreateEvaluation)
	write.PUT("/evaluations/:id", h.UpdateEvaluation)
	write.DELETE("/evaluations/:id", h.DeleteEvaluation)
	write.POST("/evaluations/:id/transition", h.TransitionEvaluation)
	write.POST("/evaluations/:id/teeth", h.AddTooth)
	write.PUT("/evaluations/:id/teeth/:toothId", h.UpdateTooth)
	write.DELETE("/evaluations/:id/teeth/:toothId", h.RemoveTooth)
}

func (h *Handler) CreateEvaluation(c echo.Context) error {
	var e Evaluation
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetEvaluation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "evaluation not found")
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListEvaluations(c echo.Context) error {
	pg := pagination.FromContext(c)
	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pid, err := uuid.Parse(patientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListByPatient(c.Request().Context(), pid, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateEvaluation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var e Evaluation
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.Update(c.Request().Context(), &e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteEvaluation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "evaluation not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) TransitionEvaluation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.Transition(c.Request().Context(), id, body.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) AddTooth(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var tr ToothRecord
	if err := c.Bind(&tr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	tr.EvaluationID = id
	if err := h.svc.AddTooth(c.Request().Context(), &tr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, tr)
}

func (h *Handler) UpdateTooth(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	toothID, err := uuid.Parse(c.Param("toothId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tooth id")
	}
	var tr ToothRecord
	if err := c.Bind(&tr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	tr.ID = toothID
	tr.EvaluationID = id
	if err := h.svc.UpdateTooth(c.Request().Context(), &tr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, tr)
}

func (h *Handler) RemoveTooth(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	toothID, err := uuid.Parse(c.Param("toothId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tooth id")
	}
	if err := h.svc.RemoveTooth(c.Request().Context(), id, toothID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "tooth record not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListTeeth(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	teeth, err := h.svc.ListTeeth(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, teeth)
}
