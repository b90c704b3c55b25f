// Package report maintains a plain-text projection of the catalog. The file
// is a derived, disposable snapshot rewritten after mutations; nothing ever
// reads it back, so write failures are logged and dropped.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lromerov/itemcat/internal/domain"
)

type Reporter struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

func NewReporter(path string, logger *slog.Logger) *Reporter {
	return &Reporter{path: path, logger: logger}
}

// Snapshot rewrites the report file from the given records, one line each.
func (r *Reporter) Snapshot(items []*domain.Item) {
	var b strings.Builder
	for _, item := range items {
		image := ""
		if item.ImagePath != nil {
			image = "/uploads/" + *item.ImagePath
		}
		fmt.Fprintf(&b, "ID: %d | Name: %s | Description: %s | Category: %s | Image: %s\n",
			item.ID, item.Name, item.Description, item.Category, image)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.WriteFile(r.path, []byte(b.String()), 0644); err != nil {
		r.logger.Error("failed to write report", "path", r.path, "error", err)
	}
}
