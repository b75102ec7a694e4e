package evaluation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Evaluation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	Update(ctx context.Context, e *Evaluation) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Evaluation, int, error)
	List(ctx context.Context, limit, offset int) ([]*Evaluation, int, error)

	AddTooth(ctx context.Context, tr *ToothRecord) error
	UpdateTooth(ctx context.Context, tr *ToothRecord) error
	RemoveTooth(ctx context.Context, evaluationID uuid.UUID, toothID uuid.UUID) error
	ListTeeth(ctx context.Context, evaluationID uuid.UUID) ([]*ToothRecord, error)
}
