package evaluation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Evaluation statuses.
const (
	StatusDraft       = "draft"
	StatusInTreatment = "in_treatment"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
)

// validTransitions maps each status to the states it may move to.
// completed and cancelled are final.
var validTransitions = map[string][]string{
	StatusDraft:       {StatusInTreatment, StatusCancelled},
	StatusInTreatment: {StatusCompleted, StatusCancelled},
}

// Evaluation is a treatment case for a patient.
type Evaluation struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	PatientID      uuid.UUID      `db:"patient_id" json:"patient_id" validate:"required"`
	Title          string         `db:"title" json:"title" validate:"required"`
	ChiefComplaint *string        `db:"chief_complaint" json:"chief_complaint,omitempty"`
	Status         string         `db:"status" json:"status"`
	Notes          *string        `db:"notes" json:"notes,omitempty"`
	Teeth          []*ToothRecord `db:"-" json:"teeth,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// ToothRecord is a per-tooth entry within an evaluation, keyed by FDI number.
type ToothRecord struct {
	ID            uuid.UUID `db:"id" json:"id"`
	EvaluationID  uuid.UUID `db:"evaluation_id" json:"evaluation_id"`
	ToothNumber   int       `db:"tooth_number" json:"tooth_number"`
	Condition     string    `db:"condition" json:"condition" validate:"required"`
	TreatmentType *string   `db:"treatment_type" json:"treatment_type,omitempty"`
	ResinShade    *string   `db:"resin_shade" json:"resin_shade,omitempty"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ValidFDINumber reports whether n is a permanent-dentition FDI tooth number:
// quadrant 1-4, position 1-8 (11-18, 21-28, 31-38, 41-48).
func ValidFDINumber(n int) bool {
	q := n / 10
	p := n % 10
	return q >= 1 && q <= 4 && p >= 1 && p <= 8
}

// CanTransition reports whether an evaluation may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known evaluation status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusInTreatment, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (e *Evaluation) validateStatus() error {
	if e.Status == "" {
		e.Status = StatusDraft
		return nil
	}
	if !ValidStatus(e.Status) {
		return fmt.Errorf("invalid status %q", e.Status)
	}
	return nil
}
