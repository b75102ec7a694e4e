package smiledesign

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dentiq/dentiq/internal/platform/ai"
	"github.com/dentiq/dentiq/internal/platform/blobstore"
	"github.com/dentiq/dentiq/pkg/smile"
)

type Service struct {
	analyses Repository
	blobs    blobstore.Store
	detector ai.ToothDetector
	validate *validator.Validate
}

func NewService(analyses Repository, blobs blobstore.Store, detector ai.ToothDetector) *Service {
	return &Service{
		analyses: analyses,
		blobs:    blobs,
		detector: detector,
		validate: validator.New(),
	}
}

// Create stores a new analysis. When tooth boxes are supplied the proportion
// lines are computed immediately; otherwise the analysis waits for either a
// manual box update or AI detection.
func (s *Service) Create(ctx context.Context, a *Analysis) error {
	if err := s.validate.Struct(a); err != nil {
		return fmt.Errorf("invalid analysis: %w", err)
	}
	if a.Source == "" {
		a.Source = SourceManual
	}
	if len(a.Boxes) > 0 {
		pl := smile.ComputeProportionLines(a.Boxes, nil)
		a.Lines = &pl
	}
	return s.analyses.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	return s.analyses.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.PhotoBlobID != nil {
		// best effort; the metadata row is the source of truth
		s.blobs.Delete(ctx, *a.PhotoBlobID)
	}
	return s.analyses.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Analysis, int, error) {
	return s.analyses.ListByPatient(ctx, patientID, limit, offset)
}

// AttachPhoto stores the uploaded clinical photo in the blobstore and links
// it to the analysis.
func (s *Service) AttachPhoto(ctx context.Context, id uuid.UUID, contentType string, r io.Reader) (*Analysis, error) {
	a, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	blobID := "photo-" + a.ID.String()
	if _, err := s.blobs.Put(ctx, blobID, contentType, r); err != nil {
		return nil, err
	}
	a.PhotoBlobID = &blobID
	a.PhotoMime = &contentType
	if err := s.analyses.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateBoxes replaces the tooth boxes and recomputes the proportion lines.
func (s *Service) UpdateBoxes(ctx context.Context, id uuid.UUID, boxes []smile.ToothBox) (*Analysis, error) {
	a, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Boxes = boxes
	a.Source = SourceManual
	pl := smile.ComputeProportionLines(boxes, nil)
	a.Lines = &pl
	if err := s.analyses.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Detect runs AI tooth detection on the attached photo and replaces the
// analysis boxes with the detected ones.
func (s *Service) Detect(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	if s.detector == nil {
		return nil, fmt.Errorf("tooth detection is not configured")
	}
	a, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.PhotoBlobID == nil {
		return nil, fmt.Errorf("analysis has no photo attached")
	}

	rc, err := s.blobs.Open(ctx, *a.PhotoBlobID)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer rc.Close()
	img, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	mime := "image/jpeg"
	if a.PhotoMime != nil {
		mime = *a.PhotoMime
	}
	boxes, err := s.detector.DetectTeeth(ctx, img, mime)
	if err != nil {
		return nil, fmt.Errorf("detect teeth: %w", err)
	}

	a.Boxes = boxes
	a.Source = SourceDetected
	pl := smile.ComputeProportionLines(boxes, nil)
	a.Lines = &pl
	if err := s.analyses.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Overlay renders the stored proportion lines as an SVG overlay.
func (s *Service) Overlay(ctx context.Context, id uuid.UUID, width, height int) ([]byte, error) {
	a, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pl := smile.ComputeProportionLines(a.Boxes, nil)
	if a.Lines != nil {
		pl = *a.Lines
	}
	var buf bytes.Buffer
	smile.RenderOverlay(&buf, pl, width, height)
	return buf.Bytes(), nil
}

// Summary returns aggregate proportion statistics for the analysis.
func (s *Service) Summary(ctx context.Context, id uuid.UUID) (*smile.ProportionSummary, error) {
	a, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pl := smile.ComputeProportionLines(a.Boxes, nil)
	if a.Lines != nil {
		pl = *a.Lines
	}
	sum := smile.Summarize(pl)
	return &sum, nil
}
