// Package thumbnail binds ingested media to content items and lists
// items with their current thumbnail state.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/attila-kis/thumbnail-manager/internal/ingest"
	"github.com/attila-kis/thumbnail-manager/internal/models"
	"github.com/attila-kis/thumbnail-manager/internal/store"
)

// Assignment and listing failure modes.
var (
	ErrInvalidContentItem = errors.New("thumbnail: invalid content item")
	ErrInvalidMedia       = errors.New("thumbnail: invalid media reference")
	ErrStoreUnavailable   = errors.New("thumbnail: content store unavailable")
)

// Ingester is the slice of the ingestion service this package needs.
type Ingester interface {
	Ingest(ctx context.Context, sourceURL string, attr ingest.Attribution) (models.IngestedMedia, error)
}

// Service assigns featured images and enumerates content items.
type Service struct {
	content  store.ContentStore
	media    store.MediaStore
	ingester Ingester
	logger   *slog.Logger
}

// NewService creates a thumbnail service.
func NewService(content store.ContentStore, media store.MediaStore, ingester Ingester, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		content:  content,
		media:    media,
		ingester: ingester,
		logger:   logger,
	}
}

// Assign sets mediaID as the featured image of the content item and
// returns the resulting displayable thumbnail URL. Both references are
// validated before anything mutates.
func (s *Service) Assign(ctx context.Context, contentItemID int64, mediaID string) (string, error) {
	if contentItemID <= 0 {
		return "", ErrInvalidContentItem
	}
	if mediaID == "" {
		return "", ErrInvalidMedia
	}

	exists, err := s.media.Exists(ctx, mediaID)
	if err != nil {
		return "", fmt.Errorf("checking media: %w", err)
	}
	if !exists {
		return "", ErrInvalidMedia
	}

	if err := s.content.SetFeaturedImage(ctx, contentItemID, mediaID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidContentItem
		}
		return "", fmt.Errorf("setting featured image: %w", err)
	}

	thumbURL, err := s.content.GetFeaturedImageURL(ctx, contentItemID, models.SizeMedium)
	if err != nil {
		return "", fmt.Errorf("resolving thumbnail: %w", err)
	}

	s.logger.Info("Featured image assigned", "content_item", contentItemID, "media_id", mediaID)
	return thumbURL, nil
}

// AssignFromURL ingests sourceURL and assigns the result in one step,
// propagating the first failure. If assignment fails after a successful
// ingestion, the ingested media stays in the store; it is orphaned but
// valid and is not rolled back.
func (s *Service) AssignFromURL(ctx context.Context, contentItemID int64, sourceURL string, attr ingest.Attribution) (string, error) {
	if contentItemID <= 0 {
		return "", ErrInvalidContentItem
	}

	media, err := s.ingester.Ingest(ctx, sourceURL, attr)
	if err != nil {
		return "", err
	}

	return s.Assign(ctx, contentItemID, media.MediaID)
}

// List returns all content items newest first, with thumbnails resolved
// at the medium rendition. Items without a featured image carry an
// empty ThumbnailURL, which serializes as an absent field.
func (s *Service) List(ctx context.Context) ([]models.ContentItem, error) {
	items, err := s.content.GetContentItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	for i := range items {
		thumbURL, err := s.content.GetFeaturedImageURL(ctx, items[i].ID, models.SizeMedium)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		items[i].ThumbnailURL = thumbURL
	}

	return items, nil
}
