package patient

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Service struct {
	patients Repository
	validate *validator.Validate
}

func NewService(patients Repository) *Service {
	return &Service{
		patients: patients,
		validate: validator.New(),
	}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("invalid patient: %w", err)
	}
	if existing, err := s.patients.GetByChartNumber(ctx, p.ChartNumber); err == nil && existing != nil {
		return fmt.Errorf("chart number %s is already in use", p.ChartNumber)
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetByChartNumber(ctx context.Context, chartNumber string) (*Patient, error) {
	return s.patients.GetByChartNumber(ctx, chartNumber)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("invalid patient: %w", err)
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) Archive(ctx context.Context, id uuid.UUID) error {
	return s.patients.Archive(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, params, limit, offset)
}
