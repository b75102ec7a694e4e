package patient

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockPatientRepo struct {
	store map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{store: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.store[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockPatientRepo) GetByChartNumber(_ context.Context, chartNumber string) (*Patient, error) {
	for _, p := range m.store {
		if p.ChartNumber == chartNumber {
			return p, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.store[p.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.store[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Archive(_ context.Context, id uuid.UUID) error {
	p, ok := m.store[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	p.Archived = true
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient
	for _, p := range m.store {
		if !p.Archived {
			r = append(r, p)
		}
	}
	return r, len(r), nil
}

func (m *mockPatientRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient
	for _, p := range m.store {
		if p.Archived {
			continue
		}
		if chart, ok := params["chart_number"]; ok && p.ChartNumber != chart {
			continue
		}
		if name, ok := params["name"]; ok {
			if !strings.Contains(strings.ToLower(p.FirstName+" "+p.LastName), strings.ToLower(name)) {
				continue
			}
		}
		r = append(r, p)
	}
	return r, len(r), nil
}

func newTestService() *Service {
	return NewService(newMockPatientRepo())
}

// -- Service Tests --

func TestCreatePatient_Success(t *testing.T) {
	svc := newTestService()
	p := &Patient{ChartNumber: "C-1001", FirstName: "Ana", LastName: "Souza"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
}

func TestCreatePatient_MissingRequired(t *testing.T) {
	svc := newTestService()
	p := &Patient{ChartNumber: "C-1001"}
	if err := svc.Create(context.Background(), p); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestCreatePatient_InvalidEmail(t *testing.T) {
	svc := newTestService()
	email := "not-an-email"
	p := &Patient{ChartNumber: "C-1001", FirstName: "Ana", LastName: "Souza", Email: &email}
	if err := svc.Create(context.Background(), p); err == nil {
		t.Fatal("expected error for invalid email")
	}
}

func TestCreatePatient_InvalidGender(t *testing.T) {
	svc := newTestService()
	g := "bogus"
	p := &Patient{ChartNumber: "C-1001", FirstName: "Ana", LastName: "Souza", Gender: &g}
	if err := svc.Create(context.Background(), p); err == nil {
		t.Fatal("expected error for invalid gender")
	}
}

func TestCreatePatient_DuplicateChartNumber(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), &Patient{ChartNumber: "C-1001", FirstName: "Ana", LastName: "Souza"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := svc.Create(context.Background(), &Patient{ChartNumber: "C-1001", FirstName: "Bruno", LastName: "Lima"})
	if err == nil {
		t.Fatal("expected error for duplicate chart number")
	}
}

func TestGetPatient_Success(t *testing.T) {
	svc := newTestService()
	p := &Patient{ChartNumber: "C-1001", FirstName: "Ana", LastName: "Souza"}
	svc.Create(context.Background(), p)
	got, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ChartNumber != "C-1001" {
		t.Errorf("ChartNumber = %v, want C-1001", got.ChartNumber)
	}
}

func TestGetPatient_NotFound(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Get(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdatePatient_Success(t *testing.T) {
	svc := newTestService()
	p := &Patient{ChartNumber: "C-1001", FirstName: "Ana", LastName: "Souza"}
	svc.Create(context.Background(), p)
	p.LastName = "Souza Lima"
	if err := svc.Update(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.Get(context.Background(), p.ID)
	if got.LastName != "Souza Lima" {
		t.Errorf("LastName = %v, want Souza Lima", got.LastName)
	}
}

func TestArchivePatient(t *testing.T) {
	svc := newTestService()
	p := &Patient{ChartNumber: "C-1001", FirstName: "Ana", LastName: "Souza"}
	svc.Create(context.Background(), p)
	if err := svc.Archive(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, total, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Errorf("expected archived patient excluded from list, got total=%d", total)
	}
}

func TestListPatients(t *testing.T) {
	svc := newTestService()
	svc.Create(context.Background(), &Patient{ChartNumber: "C-1001", FirstName: "Ana", LastName: "Souza"})
	svc.Create(context.Background(), &Patient{ChartNumber: "C-1002", FirstName: "Bruno", LastName: "Lima"})
	items, total, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 patients, got total=%d len=%d", total, len(items))
	}
}

func TestSearchPatients_ByChartNumber(t *testing.T) {
	svc := newTestService()
	svc.Create(context.Background(), &Patient{ChartNumber: "C-1001", FirstName: "Ana", LastName: "Souza"})
	svc.Create(context.Background(), &Patient{ChartNumber: "C-1002", FirstName: "Bruno", LastName: "Lima"})
	items, total, err := svc.Search(context.Background(), map[string]string{"chart_number": "C-1002"}, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].FirstName != "Bruno" {
		t.Errorf("expected Bruno, got total=%d", total)
	}
}

func TestSearchPatients_ByName(t *testing.T) {
	svc := newTestService()
	svc.Create(context.Background(), &Patient{ChartNumber: "C-1001", FirstName: "Ana", LastName: "Souza"})
	svc.Create(context.Background(), &Patient{ChartNumber: "C-1002", FirstName: "Bruno", LastName: "Lima"})
	items, total, err := svc.Search(context.Background(), map[string]string{"name": "souza"}, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].ChartNumber != "C-1001" {
		t.Errorf("expected C-1001, got total=%d", total)
	}
}
