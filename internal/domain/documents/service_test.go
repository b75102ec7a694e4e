package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dentiq/dentiq/internal/platform/pdf"
)

// -- Mocks --

type mockDocRepo struct {
	store map[uuid.UUID]*Document
}

func newMockDocRepo() *mockDocRepo {
	return &mockDocRepo{store: make(map[uuid.UUID]*Document)}
}

func (m *mockDocRepo) Create(_ context.Context, d *Document) error {
	d.ID = uuid.New()
	m.store[d.ID] = d
	return nil
}

func (m *mockDocRepo) GetByID(_ context.Context, id uuid.UUID) (*Document, error) {
	d, ok := m.store[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockDocRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return fmt.Errorf("not found")
	}
	delete(m.store, id)
	return nil
}

func (m *mockDocRepo) ListByPatient(_ context.Context, pid uuid.UUID, limit, offset int) ([]*Document, int, error) {
	var r []*Document
	for _, d := range m.store {
		if d.PatientID == pid {
			r = append(r, d)
		}
	}
	return r, len(r), nil
}

func (m *mockDocRepo) ListByEvaluation(_ context.Context, eid uuid.UUID) ([]*Document, error) {
	var r []*Document
	for _, d := range m.store {
		if d.EvaluationID != nil && *d.EvaluationID == eid {
			r = append(r, d)
		}
	}
	return r, nil
}

type mockBlobStore struct {
	blobs map[string][]byte
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string][]byte)}
}

func (m *mockBlobStore) Put(_ context.Context, id, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.blobs[id] = data
	return int64(len(data)), nil
}

func (m *mockBlobStore) Open(_ context.Context, id string) (io.ReadCloser, error) {
	data, ok := m.blobs[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockBlobStore) Delete(_ context.Context, id string) error {
	delete(m.blobs, id)
	return nil
}

func newTestService() (*Service, *mockBlobStore) {
	blobs := newMockBlobStore()
	return NewService(newMockDocRepo(), blobs, pdf.NewBundler("Clinica Sorriso")), blobs
}

// -- Service Tests --

func TestUploadDocument_Success(t *testing.T) {
	svc, blobs := newTestService()
	d := &Document{
		PatientID:   uuid.New(),
		Kind:        KindConsent,
		Title:       "Whitening consent",
		FileName:    "consent.pdf",
		ContentType: "application/pdf",
	}
	if err := svc.Upload(context.Background(), d, strings.NewReader("%PDF-1.4 data")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if d.BlobID == "" {
		t.Fatal("expected blob id")
	}
	if _, ok := blobs.blobs[d.BlobID]; !ok {
		t.Error("expected blob to be stored")
	}
	if d.Size != int64(len("%PDF-1.4 data")) {
		t.Errorf("size = %d, want %d", d.Size, len("%PDF-1.4 data"))
	}
}

func TestUploadDocument_InvalidKind(t *testing.T) {
	svc, _ := newTestService()
	d := &Document{PatientID: uuid.New(), Kind: "invoice", Title: "x"}
	if err := svc.Upload(context.Background(), d, strings.NewReader("data")); err == nil {
		t.Fatal("expected error for invalid kind")
	}
}

func TestUploadDocument_MissingTitle(t *testing.T) {
	svc, _ := newTestService()
	d := &Document{PatientID: uuid.New(), Kind: KindOther}
	if err := svc.Upload(context.Background(), d, strings.NewReader("data")); err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestOpenDocument_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	d := &Document{
		PatientID: uuid.New(), Kind: KindLabReport, Title: "Shade report",
		FileName: "report.pdf", ContentType: "application/pdf",
	}
	svc.Upload(context.Background(), d, strings.NewReader("report bytes"))

	got, rc, err := svc.Open(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "report bytes" {
		t.Errorf("content = %q, want report bytes", data)
	}
	if got.Title != "Shade report" {
		t.Errorf("title = %v, want Shade report", got.Title)
	}
}

func TestDeleteDocument_RemovesBlob(t *testing.T) {
	svc, blobs := newTestService()
	d := &Document{PatientID: uuid.New(), Kind: KindOther, Title: "x", ContentType: "application/pdf"}
	svc.Upload(context.Background(), d, strings.NewReader("data"))

	if err := svc.Delete(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blobs.blobs) != 0 {
		t.Error("expected blob to be deleted")
	}
}

func TestExportCaseBundle_NoPDFs(t *testing.T) {
	svc, _ := newTestService()
	eid := uuid.New()
	d := &Document{
		PatientID: uuid.New(), EvaluationID: &eid, Kind: KindOther,
		Title: "photo", ContentType: "image/jpeg",
	}
	svc.Upload(context.Background(), d, strings.NewReader("jpeg"))

	var buf bytes.Buffer
	if err := svc.ExportCaseBundle(context.Background(), eid, &buf); err == nil {
		t.Fatal("expected error when the evaluation has no PDF attachments")
	}
}

func TestExportCaseBundle_EmptyEvaluation(t *testing.T) {
	svc, _ := newTestService()
	var buf bytes.Buffer
	if err := svc.ExportCaseBundle(context.Background(), uuid.New(), &buf); err == nil {
		t.Fatal("expected error for an evaluation with no documents")
	}
}

func TestExportCaseBundle_InvalidPDF(t *testing.T) {
	svc, _ := newTestService()
	eid := uuid.New()
	d := &Document{
		PatientID: uuid.New(), EvaluationID: &eid, Kind: KindConsent,
		Title: "broken consent", ContentType: "application/pdf",
	}
	svc.Upload(context.Background(), d, strings.NewReader("not a real pdf"))

	var buf bytes.Buffer
	err := svc.ExportCaseBundle(context.Background(), eid, &buf)
	if err == nil {
		t.Fatal("expected validation error for a corrupt PDF")
	}
	if !strings.Contains(err.Error(), "broken consent") {
		t.Errorf("error should name the offending document, got %v", err)
	}
}
