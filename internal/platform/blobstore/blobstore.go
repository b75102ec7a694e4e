// Package blobstore stores clinical photo and document bytes on disk.
// Metadata lives in the domain tables; the store only deals in blob IDs.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

var (
	ErrBlobNotFound       = errors.New("blob not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrInvalidID          = errors.New("invalid blob id")
)

// MaxFileSize is the maximum allowed blob size in bytes (25 MB).
const MaxFileSize = 25 * 1024 * 1024

// AllowedContentTypes lists the file types the practice accepts: clinical
// photos and PDF paperwork.
var AllowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Store is the blob storage interface used by the domain services.
type Store interface {
	Put(ctx context.Context, id, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, id string) (io.ReadCloser, error)
	Delete(ctx context.Context, id string) error
}

// FSStore is a filesystem-backed Store rooted at a single directory.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if needed and returns the store.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory %s: %w", root, err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) path(id string) (string, error) {
	if !idPattern.MatchString(id) {
		return "", ErrInvalidID
	}
	return filepath.Join(s.root, id), nil
}

// Put writes the blob, enforcing the size cap and content-type allowlist.
// A partially written file is removed on failure.
func (s *FSStore) Put(_ context.Context, id, contentType string, r io.Reader) (int64, error) {
	if !AllowedContentTypes[contentType] {
		return 0, ErrInvalidContentType
	}
	p, err := s.path(id)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(p)
	if err != nil {
		return 0, fmt.Errorf("create blob %s: %w", id, err)
	}

	n, err := io.Copy(f, io.LimitReader(r, MaxFileSize+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > MaxFileSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(p)
		return 0, err
	}
	return n, nil
}

func (s *FSStore) Open(_ context.Context, id string) (io.ReadCloser, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	return f, err
}

func (s *FSStore) Delete(_ context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); errors.Is(err, os.ErrNotExist) {
		return ErrBlobNotFound
	} else if err != nil {
		return err
	}
	return nil
}
