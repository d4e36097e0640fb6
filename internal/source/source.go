// Package source fetches the manifest and markdown documents the viewer
// displays, either over HTTP or from a local directory.
package source

import (
	"context"
	"errors"
	"fmt"
)

// Source supplies raw manifest and document bytes.
type Source interface {
	// Manifest returns the items.json document.
	Manifest(ctx context.Context) ([]byte, error)
	// Document returns the markdown at a manifest path. A missing document
	// is reported as a *StatusError.
	Document(ctx context.Context, path string) ([]byte, error)
}

// StatusError is a response that arrived with a non-success status.
type StatusError struct {
	Target string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("get %s: status %d", e.Target, e.Code)
}

// AsStatus unwraps a *StatusError from err.
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
