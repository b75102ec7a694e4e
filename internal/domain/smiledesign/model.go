package smiledesign

import (
	"time"

	"github.com/google/uuid"

	"github.com/dentiq/dentiq/pkg/smile"
)

// Analysis is a stored smile-design computation for a patient: the photo
// reference, the tooth bounding boxes, and the proportion lines derived
// from them. Lines is always recomputed from Boxes on write, never edited
// directly.
type Analysis struct {
	ID          uuid.UUID              `db:"id" json:"id"`
	PatientID   uuid.UUID              `db:"patient_id" json:"patient_id" validate:"required"`
	PhotoBlobID *string                `db:"photo_blob_id" json:"photo_blob_id,omitempty"`
	PhotoMime   *string                `db:"photo_mime" json:"photo_mime,omitempty"`
	Source      string                 `db:"source" json:"source"`
	Boxes       []smile.ToothBox       `db:"boxes" json:"boxes"`
	Lines       *smile.ProportionLines `db:"lines" json:"lines,omitempty"`
	Notes       *string                `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time              `db:"updated_at" json:"updated_at"`
}

// Box sources.
const (
	SourceManual   = "manual"
	SourceDetected = "detected"
)
