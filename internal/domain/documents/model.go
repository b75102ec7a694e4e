package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document kinds.
const (
	KindConsent   = "consent"
	KindReferral  = "referral"
	KindLabReport = "lab_report"
	KindOther     = "other"
)

// Document is the metadata row for a stored clinical file. The bytes live in
// the blobstore under BlobID.
type Document struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id" validate:"required"`
	EvaluationID *uuid.UUID `db:"evaluation_id" json:"evaluation_id,omitempty"`
	Kind         string     `db:"kind" json:"kind" validate:"required,oneof=consent referral lab_report other"`
	Title        string     `db:"title" json:"title" validate:"required"`
	FileName     string     `db:"file_name" json:"file_name"`
	ContentType  string     `db:"content_type" json:"content_type"`
	BlobID       string     `db:"blob_id" json:"blob_id"`
	Size         int64      `db:"size" json:"size"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
