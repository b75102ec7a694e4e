package evaluation

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Service struct {
	evals    Repository
	validate *validator.Validate
}

func NewService(evals Repository) *Service {
	return &Service{
		evals:    evals,
		validate: validator.New(),
	}
}

func (s *Service) Create(ctx context.Context, e *Evaluation) error {
	if err := e.validateStatus(); err != nil {
		return err
	}
	if err := s.validate.Struct(e); err != nil {
		return fmt.Errorf("invalid evaluation: %w", err)
	}
	return s.evals.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	return s.evals.GetByID(ctx, id)
}

// Update changes the editable fields of an evaluation. Status changes go
// through Transition, not Update.
func (s *Service) Update(ctx context.Context, e *Evaluation) error {
	existing, err := s.evals.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	e.Status = existing.Status
	if err := s.validate.Struct(e); err != nil {
		return fmt.Errorf("invalid evaluation: %w", err)
	}
	return s.evals.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.evals.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Evaluation, int, error) {
	return s.evals.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Evaluation, int, error) {
	return s.evals.ListByPatient(ctx, patientID, limit, offset)
}

// Transition moves an evaluation to a new status, enforcing the workflow:
// draft -> in_treatment -> completed, with cancel allowed from any non-final state.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to string) (*Evaluation, error) {
	if !ValidStatus(to) {
		return nil, fmt.Errorf("invalid status %q", to)
	}
	e, err := s.evals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(e.Status, to) {
		return nil, fmt.Errorf("cannot transition from %s to %s", e.Status, to)
	}
	e.Status = to
	if err := s.evals.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) AddTooth(ctx context.Context, tr *ToothRecord) error {
	if !ValidFDINumber(tr.ToothNumber) {
		return fmt.Errorf("invalid FDI tooth number %d", tr.ToothNumber)
	}
	if err := s.validate.Struct(tr); err != nil {
		return fmt.Errorf("invalid tooth record: %w", err)
	}
	if _, err := s.evals.GetByID(ctx, tr.EvaluationID); err != nil {
		return fmt.Errorf("evaluation not found: %w", err)
	}
	return s.evals.AddTooth(ctx, tr)
}

func (s *Service) UpdateTooth(ctx context.Context, tr *ToothRecord) error {
	if !ValidFDINumber(tr.ToothNumber) {
		return fmt.Errorf("invalid FDI tooth number %d", tr.ToothNumber)
	}
	if err := s.validate.Struct(tr); err != nil {
		return fmt.Errorf("invalid tooth record: %w", err)
	}
	return s.evals.UpdateTooth(ctx, tr)
}

func (s *Service) RemoveTooth(ctx context.Context, evaluationID, toothID uuid.UUID) error {
	return s.evals.RemoveTooth(ctx, evaluationID, toothID)
}

func (s *Service) ListTeeth(ctx context.Context, evaluationID uuid.UUID) ([]*ToothRecord, error) {
	return s.evals.ListTeeth(ctx, evaluationID)
}
