// Package store defines the narrow interfaces this system needs from the
// host CMS: content items, media objects, and settings. The sqlite
// subpackage provides the standalone implementation.
package store

import (
	"context"
	"errors"

	"github.com/attila-kis/thumbnail-manager/internal/models"
)

// ErrNotFound is returned when a content item, media object, or setting
// does not exist.
var ErrNotFound = errors.New("store: not found")

// ContentStore exposes the host's posts. Items are read-only to this
// system except for their featured-image reference.
type ContentStore interface {
	// GetContentItems returns all items, newest first.
	GetContentItems(ctx context.Context) ([]models.ContentItem, error)

	// GetFeaturedImageURL returns the displayable URL of the item's
	// featured image at the given rendition, or "" when the item has
	// no featured image.
	GetFeaturedImageURL(ctx context.Context, id int64, rendition string) (string, error)

	// SetFeaturedImage re-points the item's featured-image reference.
	// The previously referenced media object is left in place.
	SetFeaturedImage(ctx context.Context, id int64, mediaID string) error

	// GetEditURL returns the host's edit link for the item.
	GetEditURL(id int64) string
}

// NewMedia describes an image being registered with the media store.
// TempPath points at the downloaded artifact; the store copies it into
// its own space and never takes ownership of the temp file.
type NewMedia struct {
	TempPath       string
	Filename       string
	SourceURL      string
	Attribution    string
	AttributionURL string
}

// MediaStore owns ingested images. Every StoreFromFile call creates a
// distinct media object; there is no dedupe by source URL.
type MediaStore interface {
	StoreFromFile(ctx context.Context, m NewMedia) (mediaID string, err error)

	// GetImageURL returns the serving URL for a media object at the
	// given rendition.
	GetImageURL(ctx context.Context, mediaID, rendition string) (string, error)

	Exists(ctx context.Context, mediaID string) (bool, error)
}

// SettingsStore persists process-wide configuration such as the
// provider credential.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// APIKeySetting is the settings key holding the Pexels credential.
const APIKeySetting = "pexels_api_key"
