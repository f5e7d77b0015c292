package models

import "time"

// ContentItem represents a post or page owned by the content store.
// This system only reads items and re-points their featured image.
type ContentItem struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail,omitempty"`
	EditLink     string    `json:"edit_link"`
	CreatedAt    time.Time `json:"created_at"`
}

// ImageResult is one candidate photo returned by the provider.
// Sizes holds only the renditions the provider actually offers; a size
// the provider omits is absent from the map, never an empty string.
type ImageResult struct {
	ID              int64             `json:"id"`
	Thumbnail       string            `json:"thumbnail"`
	Sizes           map[string]string `json:"sizes"`
	Photographer    string            `json:"photographer"`
	PhotographerURL string            `json:"photographer_url"`
	Width           int               `json:"width"`
	Height          int               `json:"height"`
}

// Size labels an ImageResult.Sizes map may carry. Medium is the
// recommended default when presenting choices.
const (
	SizeSmall    = "small"
	SizeMedium   = "medium"
	SizeLarge    = "large"
	SizeLarge2x  = "large2x"
	SizeOriginal = "original"
)

// IngestedMedia is the stable reference returned once an external image
// has been downloaded and registered in the media store.
type IngestedMedia struct {
	MediaID    string `json:"media_id"`
	SourceURL  string `json:"source_url"`
	DisplayURL string `json:"display_url"`
}
