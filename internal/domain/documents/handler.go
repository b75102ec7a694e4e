package documents

import (
	"bytes"
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
	read.GET("/documents", h.ListDocuments)
	read.GET("/documents/:id", h.GetDocument)
	read.GET("/documents/:id/content", h.GetContent)
	read.GET("/evaluations/:id/bundle.pdf", h.ExportCaseBundle)

	write := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDentist, auth.RoleAssistant))
	write.POST("/documents", h.UploadDocument)
	write.DELETE("/documents/:id", h.DeleteDocument)
}

// UploadDocument accepts a multipart form: a "file" part plus metadata fields
// (patient_id, kind, title, optional evaluation_id).
func (h *Handler) UploadDocument(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	patientID, err := uuid.Parse(c.FormValue("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}

	d := Document{
		PatientID:   patientID,
		Kind:        c.FormValue("kind"),
		Title:       c.FormValue("title"),
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
	}
	if v := c.FormValue("evaluation_id"); v != "" {
		eid, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid evaluation_id")
		}
		d.EvaluationID = &eid
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	if err := h.svc.Upload(c.Request().Context(), &d, src); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) GetContent(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, rc, err := h.svc.Open(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	defer rc.Close()
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+d.FileName+`"`)
	return c.Stream(http.StatusOK, d.ContentType, rc)
}

func (h *Handler) ListDocuments(c echo.Context) error {
	if v := c.QueryParam("evaluation_id"); v != "" {
		eid, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid evaluation_id")
		}
		docs, err := h.svc.ListByEvaluation(c.Request().Context(), eid)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, docs)
	}

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

func (h *Handler) DeleteDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ExportCaseBundle(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var buf bytes.Buffer
	if err := h.svc.ExportCaseBundle(c.Request().Context(), id, &buf); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="case-bundle.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
