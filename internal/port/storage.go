package port

import (
	"context"
	"io"
)

// ObjectStorage stores raw import files for later auditing.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (location string, err error)
}
