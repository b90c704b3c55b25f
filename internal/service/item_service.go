package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lromerov/itemcat/internal/assetstore"
	"github.com/lromerov/itemcat/internal/domain"
	"github.com/lromerov/itemcat/internal/suggest"
)

// itemRepository is the subset of store.ItemStore that ItemService requires.
type itemRepository interface {
	Create(ctx context.Context, name, description, category string, imagePath *string) (*domain.Item, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	Update(ctx context.Context, id int64, upd domain.ItemUpdate) (*domain.Item, error)
	SetImagePath(ctx context.Context, id int64, path *string) error
	Delete(ctx context.Context, id int64) error
}

// Reporter receives catalog snapshots after mutations and list reads.
// It is optional; a nil Reporter disables reporting entirely.
type Reporter interface {
	Snapshot(items []*domain.Item)
}

// Upload is an uploaded image held in memory, capped upstream by the HTTP
// boundary's request size limit.
type Upload struct {
	Filename string
	Data     []byte
	MimeType string
}

// ItemService is the only component allowed to couple record lifecycle to
// asset lifecycle: replacing an image deletes the old file, deleting an item
// deletes its file.
type ItemService struct {
	items     itemRepository
	assets    assetstore.AssetStore
	suggester suggest.CategorySuggester
	reporter  Reporter
	logger    *slog.Logger
}

// NewItemService builds the service. suggester and rep are optional; pass
// nil to disable category suggestions or report snapshots.
func NewItemService(
	items itemRepository,
	assets assetstore.AssetStore,
	suggester suggest.CategorySuggester,
	rep Reporter,
	logger *slog.Logger,
) *ItemService {
	return &ItemService{
		items:     items,
		assets:    assets,
		suggester: suggester,
		reporter:  rep,
		logger:    logger,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, name, description, category string, upload *Upload) (*domain.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	if upload != nil && category == "" && s.suggester != nil {
		suggested, err := s.suggester.Suggest(ctx, name, upload.Data, upload.MimeType)
		if err != nil {
			s.logger.Warn("category suggestion failed", "name", name, "error", err)
		} else if suggested != "" {
			s.logger.Info("category suggested", "name", name, "category", suggested)
			category = suggested
		}
	}

	var imagePath *string
	if upload != nil {
		storedName, err := s.assets.Save(ctx, upload.Filename, bytes.NewReader(upload.Data))
		if err != nil {
			return nil, err
		}
		imagePath = &storedName
		s.logger.Debug("asset saved", "stored_name", storedName)
	}

	item, err := s.items.Create(ctx, name, description, category, imagePath)
	if err != nil {
		// The insert failed after the asset was written; clean up the orphan.
		if imagePath != nil {
			if derr := s.assets.Delete(ctx, *imagePath); derr != nil {
				s.logger.Error("failed to clean up orphaned asset", "stored_name", *imagePath, "error", derr)
			}
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("item created", "id", item.ID, "name", item.Name)
	s.snapshot(ctx)
	return item, nil
}

func (s *ItemService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	return s.items.GetByID(ctx, id)
}

// ListItems returns all items ascending by id and refreshes the report.
func (s *ItemService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.reporter != nil {
		s.reporter.Snapshot(items)
	}
	return items, nil
}

// UpdateItem applies a partial update and optionally replaces the image.
// A present-but-empty name is ignored (the previous name is kept), while a
// present-but-empty description or category clears the field. When an upload
// replaces an existing image, the new file is saved before the old one is
// deleted, so a failed save loses nothing.
func (s *ItemService) UpdateItem(ctx context.Context, id int64, upd domain.ItemUpdate, upload *Upload) (*domain.Item, error) {
	current, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		upd.Name = nil
	}

	var newImage *string
	if upload != nil {
		storedName, err := s.assets.Save(ctx, upload.Filename, bytes.NewReader(upload.Data))
		if err != nil {
			return nil, err
		}
		newImage = &storedName
		s.logger.Debug("asset saved", "id", id, "stored_name", storedName)
	}

	item, err := s.items.Update(ctx, id, upd)
	if err != nil {
		if newImage != nil {
			if derr := s.assets.Delete(ctx, *newImage); derr != nil {
				s.logger.Error("failed to clean up orphaned asset", "stored_name", *newImage, "error", derr)
			}
		}
		return nil, err
	}

	if newImage != nil {
		if err := s.items.SetImagePath(ctx, id, newImage); err != nil {
			return nil, err
		}
		if current.ImagePath != nil {
			if derr := s.assets.Delete(ctx, *current.ImagePath); derr != nil {
				s.logger.Error("failed to delete replaced asset", "stored_name", *current.ImagePath, "error", derr)
			}
		}
		item.ImagePath = newImage
	}

	s.logger.Info("item updated", "id", id)
	s.snapshot(ctx)
	return item, nil
}

// DeleteItem removes the item and, best-effort, its asset. A missing record
// returns domain.ErrNotFound before the asset is touched.
func (s *ItemService) DeleteItem(ctx context.Context, id int64) error {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if item.ImagePath != nil {
		if derr := s.assets.Delete(ctx, *item.ImagePath); derr != nil {
			s.logger.Error("failed to delete asset", "stored_name", *item.ImagePath, "error", derr)
		}
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("item deleted", "id", id)
	s.snapshot(ctx)
	return nil
}

func (s *ItemService) snapshot(ctx context.Context) {
	if s.reporter == nil {
		return
	}
	items, err := s.items.List(ctx)
	if err != nil {
		s.logger.Error("failed to list items for report", "error", err)
		return
	}
	s.reporter.Snapshot(items)
}
