// Package storage persists uploaded post covers. Stored names are random
// with the original file's extension preserved, so a cover keeps its type
// when served back.
package storage

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"
)

// CoverStore is the blob backend for post covers.
type CoverStore interface {
	// Save stores the upload under a newly derived name and returns it.
	Save(ctx context.Context, originalName string, r io.Reader, size int64) (string, error)
	// Open streams a stored cover back along with its content type.
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}

// deriveName builds "<uuid><ext>" from the upload's original filename.
func deriveName(originalName string) string {
	return uuid.NewString() + filepath.Ext(originalName)
}
