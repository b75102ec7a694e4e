package inventory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	return h, e
}

func TestCreateItemHandler_Success(t *testing.T) {
	h, e := newTestHandler()
	body := `{"name":"Filtek Z350","shade":"A2","unit":"syringe","reorder_level":2}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateItem(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestRecordMovementHandler_InsufficientStock(t *testing.T) {
	h, e := newTestHandler()
	it := &Item{Name: "Filtek Z350", Unit: "syringe"}
	h.svc.CreateItem(nil, it)
	body := `{"type":"out","quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(it.ID.String())
	err := h.RecordMovement(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 HTTPError, got %v", err)
	}
}

func TestGetStockHandler(t *testing.T) {
	h, e := newTestHandler()
	it := &Item{Name: "Filtek Z350", Unit: "syringe"}
	h.svc.CreateItem(nil, it)
	h.svc.RecordMovement(nil, &Movement{ItemID: it.ID, Type: MovementIn, Quantity: 7})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(it.ID.String())
	if err := h.GetStock(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result map[string]int
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result["stock"] != 7 {
		t.Errorf("stock = %d, want 7", result["stock"])
	}
}

func TestExpiringSoonHandler_InvalidDays(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/inventory/expiring?days=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.ExpiringSoon(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 HTTPError, got %v", err)
	}
}
