// Package store handles persistence of the issue document.
package store

import (
	"context"
	"fmt"

	"github.com/joshsymonds/facet/internal/models"
)

// Store is the durable home of the single issue document. Implementations
// must make Save atomic enough that a concurrent Load never observes a
// partially written document; cross-process writers are last-writer-wins.
type Store interface {
	Load(ctx context.Context) (*models.IssueDocument, error)
	Save(ctx context.Context, doc *models.IssueDocument) error
}

// StorageError wraps a persistence read or write failure.
type StorageError struct {
	Err error
	Op  string
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

func newStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
