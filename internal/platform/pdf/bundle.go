// Package pdf assembles case bundles: the PDF documents attached to an
// evaluation merged into a single file and stamped with the practice name.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Document is one input to a bundle.
type Document struct {
	Name   string
	Reader io.Reader
}

// Bundler merges and stamps case documents.
type Bundler struct {
	practiceName string
}

func NewBundler(practiceName string) *Bundler {
	return &Bundler{practiceName: practiceName}
}

// Build merges the given PDF documents in order, stamps every page with the
// practice name, and writes the result. Inputs are validated first; a
// non-PDF attachment fails the whole bundle rather than producing a partial
// one.
func (b *Bundler) Build(docs []Document, w io.Writer) error {
	if len(docs) == 0 {
		return errors.New("case bundle requires at least one document")
	}

	tmpDir, err := os.MkdirTemp("", "dentiq-bundle-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inFiles := make([]string, 0, len(docs))
	for i, doc := range docs {
		p := filepath.Join(tmpDir, fmt.Sprintf("in-%03d.pdf", i))
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("stage document %s: %w", doc.Name, err)
		}
		_, copyErr := io.Copy(f, doc.Reader)
		closeErr := f.Close()
		if copyErr != nil {
			return fmt.Errorf("stage document %s: %w", doc.Name, copyErr)
		}
		if closeErr != nil {
			return fmt.Errorf("stage document %s: %w", doc.Name, closeErr)
		}
		if err := api.ValidateFile(p, nil); err != nil {
			return fmt.Errorf("document %s is not a valid PDF: %w", doc.Name, err)
		}
		inFiles = append(inFiles, p)
	}

	merged := filepath.Join(tmpDir, "merged.pdf")
	if err := api.MergeCreateFile(inFiles, merged, false, nil); err != nil {
		return fmt.Errorf("merge documents: %w", err)
	}

	out := merged
	if b.practiceName != "" {
		stamped := filepath.Join(tmpDir, "stamped.pdf")
		if err := api.AddTextWatermarksFile(merged, stamped, nil, true,
			b.practiceName, "points:10, scale:0.4 rel, op:0.3, rot:0, pos:bc", nil); err != nil {
			return fmt.Errorf("stamp bundle: %w", err)
		}
		out = stamped
	}

	f, err := os.Open(out)
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	return nil
}

// PageCount reports the number of pages in a PDF stream.
func PageCount(rs io.ReadSeeker) (int, error) {
	return api.PageCount(rs, nil)
}
