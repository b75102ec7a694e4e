package smiledesign

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(det *mockDetector) (*Handler, *echo.Echo) {
	svc, _ := newTestService(det)
	h := NewHandler(svc)
	e := echo.New()
	return h, e
}

func TestCreateAnalysisHandler_Success(t *testing.T) {
	h, e := newTestHandler(nil)
	body := `{"patient_id":"` + uuid.New().String() + `","boxes":[
		{"x":24,"y":40,"width":5,"height":17},
		{"x":32,"y":39,"width":6.18,"height":16.5},
		{"x":42,"y":38,"width":10,"height":19},
		{"x":52,"y":38,"width":10,"height":16},
		{"x":62,"y":39,"width":6.18,"height":16.5},
		{"x":70,"y":40,"width":5,"height":17}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateAnalysis(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var result map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &result)
	lines, ok := result["lines"].(map[string]interface{})
	if !ok {
		t.Fatal("expected computed lines in response")
	}
	if lines["midline"] == nil {
		t.Error("expected a midline")
	}
}

func TestGetOverlayHandler(t *testing.T) {
	h, e := newTestHandler(nil)
	a := &Analysis{PatientID: uuid.New(), Boxes: sixBoxes()}
	h.svc.Create(nil, a)
	req := httptest.NewRequest(http.MethodGet, "/?width=400&height=300", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	if err := h.GetOverlay(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/svg+xml" {
		t.Errorf("content type = %v, want image/svg+xml", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("expected svg body")
	}
}

func TestGetSummaryHandler(t *testing.T) {
	h, e := newTestHandler(nil)
	a := &Analysis{PatientID: uuid.New(), Boxes: sixBoxes()}
	h.svc.Create(nil, a)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	if err := h.GetSummary(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result["bracket_count"] != float64(4) {
		t.Errorf("bracket_count = %v, want 4", result["bracket_count"])
	}
}

func TestDetectHandler_NoPhoto(t *testing.T) {
	h, e := newTestHandler(&mockDetector{boxes: sixBoxes()})
	a := &Analysis{PatientID: uuid.New()}
	h.svc.Create(nil, a)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	err := h.DetectTeeth(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 HTTPError, got %v", err)
	}
}

func TestAttachPhotoHandler_RawBody(t *testing.T) {
	h, e := newTestHandler(nil)
	a := &Analysis{PatientID: uuid.New()}
	h.svc.Create(nil, a)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("jpegdata"))
	req.Header.Set(echo.HeaderContentType, "image/jpeg")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	if err := h.AttachPhoto(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result["photo_blob_id"] == nil {
		t.Error("expected photo_blob_id in response")
	}
}

func TestUpdateBoxesHandler(t *testing.T) {
	h, e := newTestHandler(nil)
	a := &Analysis{PatientID: uuid.New()}
	h.svc.Create(nil, a)
	body := `[{"x":50,"y":40,"width":10,"height":15}]`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	if err := h.UpdateBoxes(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &result)
	lines := result["lines"].(map[string]interface{})
	mid := lines["midline"].(map[string]interface{})
	if mid["x"] != float64(50) {
		t.Errorf("midline x = %v, want 50", mid["x"])
	}
}
