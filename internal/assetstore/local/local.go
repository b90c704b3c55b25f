package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lromerov/itemcat/internal/domain"
)

// LocalAssetStore keeps uploaded files as plain files under basePath.
type LocalAssetStore struct {
	basePath string
}

func NewLocalAssetStore(basePath string) (*LocalAssetStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalAssetStore{basePath: basePath}, nil
}

// Save writes the content under the sanitized suggested name. On a name
// collision it appends _1, _2, ... before the extension until an unused name
// is found. The file is opened with O_EXCL inside the retry loop, so two
// concurrent saves of the same name cannot clobber each other.
func (s *LocalAssetStore) Save(ctx context.Context, suggestedName string, r io.Reader) (string, error) {
	name := sanitizeFilename(suggestedName)
	if name == "" {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFilename, suggestedName)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	var f *os.File
	for counter := 1; ; counter++ {
		var err error
		f, err = os.OpenFile(filepath.Join(s.basePath, candidate), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("failed to create file: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}

	filePath := filepath.Join(s.basePath, candidate)
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return candidate, nil
}

func (s *LocalAssetStore) Open(ctx context.Context, storedName string) (io.ReadCloser, string, error) {
	filePath, err := s.safeJoin(storedName)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrNotFound, storedName)
	}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", domain.ErrNotFound, storedName)
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return f, mimeFromName(storedName), nil
}

// Delete removes the stored file. A file that is already gone is success.
func (s *LocalAssetStore) Delete(ctx context.Context, storedName string) error {
	filePath, err := s.safeJoin(storedName)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidFilename, storedName)
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// safeJoin resolves storedName relative to basePath and rejects directory
// traversal.
func (s *LocalAssetStore) safeJoin(storedName string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, storedName))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}

// sanitizeFilename reduces a client-supplied filename to a safe basename:
// directory components (either separator style) are stripped, spaces become
// underscores, and anything outside [A-Za-z0-9._-] is dropped. Leading dots
// are removed so the result can never be a hidden file, ".", or "..".
// Returns "" when nothing usable remains.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}

func mimeFromName(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}
