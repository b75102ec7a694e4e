package documents

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	return h, e
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, fileContent string) (*http.Request, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	fw, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(fileContent))
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req, w.FormDataContentType()
}

func TestUploadDocumentHandler_Success(t *testing.T) {
	h, e := newTestHandler()
	req, _ := multipartUpload(t, map[string]string{
		"patient_id": uuid.New().String(),
		"kind":       "consent",
		"title":      "Whitening consent",
	}, "consent.pdf", "%PDF-1.4 data")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.UploadDocument(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var result map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result["file_name"] != "consent.pdf" {
		t.Errorf("file_name = %v, want consent.pdf", result["file_name"])
	}
}

func TestUploadDocumentHandler_MissingFile(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.UploadDocument(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 HTTPError, got %v", err)
	}
}

func TestUploadDocumentHandler_BadPatientID(t *testing.T) {
	h, e := newTestHandler()
	req, _ := multipartUpload(t, map[string]string{
		"patient_id": "nope",
		"kind":       "consent",
		"title":      "x",
	}, "x.pdf", "data")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.UploadDocument(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 HTTPError, got %v", err)
	}
}

func TestGetContentHandler(t *testing.T) {
	h, e := newTestHandler()
	d := &Document{
		PatientID: uuid.New(), Kind: KindOther, Title: "x",
		FileName: "x.pdf", ContentType: "application/pdf",
	}
	h.svc.Upload(nil, d, strings.NewReader("pdf bytes"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())
	if err := h.GetContent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.String() != "pdf bytes" {
		t.Errorf("body = %q, want pdf bytes", rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderContentDisposition), "x.pdf") {
		t.Error("expected filename in content disposition")
	}
}

func TestExportCaseBundleHandler_NoDocs(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	err := h.ExportCaseBundle(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 HTTPError, got %v", err)
	}
}
