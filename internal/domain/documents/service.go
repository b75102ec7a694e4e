package documents

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dentiq/dentiq/internal/platform/blobstore"
	"github.com/dentiq/dentiq/internal/platform/pdf"
)

type Service struct {
	docs     Repository
	blobs    blobstore.Store
	bundler  *pdf.Bundler
	validate *validator.Validate
}

func NewService(docs Repository, blobs blobstore.Store, bundler *pdf.Bundler) *Service {
	return &Service{
		docs:     docs,
		blobs:    blobs,
		bundler:  bundler,
		validate: validator.New(),
	}
}

// Upload validates the metadata, stores the bytes in the blobstore, and
// writes the metadata row. The blob is keyed by a fresh UUID so the metadata
// row can be created after the upload succeeds.
func (s *Service) Upload(ctx context.Context, d *Document, r io.Reader) error {
	if err := s.validate.Struct(d); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	blobID := "doc-" + uuid.New().String()
	size, err := s.blobs.Put(ctx, blobID, d.ContentType, r)
	if err != nil {
		return fmt.Errorf("store document: %w", err)
	}
	d.BlobID = blobID
	d.Size = size
	if err := s.docs.Create(ctx, d); err != nil {
		s.blobs.Delete(ctx, blobID)
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.docs.GetByID(ctx, id)
}

// Open returns the document metadata together with its content stream.
func (s *Service) Open(ctx context.Context, id uuid.UUID) (*Document, io.ReadCloser, error) {
	d, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, d.BlobID)
	if err != nil {
		return nil, nil, fmt.Errorf("open document content: %w", err)
	}
	return d, rc, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	d, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		return err
	}
	// best effort; the metadata row is gone either way
	s.blobs.Delete(ctx, d.BlobID)
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Document, int, error) {
	return s.docs.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByEvaluation(ctx context.Context, evaluationID uuid.UUID) ([]*Document, error) {
	return s.docs.ListByEvaluation(ctx, evaluationID)
}

// ExportCaseBundle merges the PDF documents attached to an evaluation into a
// single stamped file and writes it to w. Non-PDF attachments are skipped;
// an evaluation with no PDF attachments is an error.
func (s *Service) ExportCaseBundle(ctx context.Context, evaluationID uuid.UUID, w io.Writer) error {
	docs, err := s.docs.ListByEvaluation(ctx, evaluationID)
	if err != nil {
		return err
	}

	var inputs []pdf.Document
	var readers []io.ReadCloser
	defer func() {
		for _, rc := range readers {
			rc.Close()
		}
	}()
	for _, d := range docs {
		if d.ContentType != "application/pdf" {
			continue
		}
		rc, err := s.blobs.Open(ctx, d.BlobID)
		if err != nil {
			return fmt.Errorf("open %s: %w", d.Title, err)
		}
		readers = append(readers, rc)
		inputs = append(inputs, pdf.Document{Name: d.Title, Reader: rc})
	}
	if len(inputs) == 0 {
		return fmt.Errorf("evaluation has no PDF documents to bundle")
	}
	return s.bundler.Build(inputs, w)
}
