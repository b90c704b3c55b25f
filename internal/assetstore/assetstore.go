package assetstore

import (
	"context"
	"io"
)

// AssetStore persists uploaded image files under an upload root.
type AssetStore interface {
	// Save stores the content under a name derived from suggestedName,
	// disambiguating collisions. It returns the final stored filename.
	// A suggested name that sanitizes to nothing fails with
	// domain.ErrInvalidFilename.
	Save(ctx context.Context, suggestedName string, r io.Reader) (storedName string, err error)

	// Open returns the stored file's content and MIME type, or
	// domain.ErrNotFound if the name is unknown or escapes the root.
	Open(ctx context.Context, storedName string) (io.ReadCloser, string, error)

	// Delete removes the stored file. A missing file is not an error;
	// callers on best-effort paths may log and discard the result.
	Delete(ctx context.Context, storedName string) error
}
