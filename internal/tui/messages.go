package tui

import (
	"github.com/attila-kis/thumbnail-manager/internal/models"
)

// Message types for the TUI

// ErrMsg represents a failed network call. ContentItemID is non-zero
// for modal-scoped operations so stale failures from a closed modal
// session can be dropped.
type ErrMsg struct {
	Err           error
	Context       string
	ContentItemID int64
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// TokenReadyMsg signals that the anti-forgery token has been obtained
type TokenReadyMsg struct{}

// PostsLoadedMsg signals that the post grid data has been loaded
type PostsLoadedMsg struct {
	Items []models.ContentItem
}

// SearchResultsMsg carries provider results for one modal session.
// ContentItemID tags the session active when the search was dispatched.
type SearchResultsMsg struct {
	ContentItemID int64
	Results       []models.ImageResult
}

// ThumbnailSetMsg signals a completed assignment for one modal session
type ThumbnailSetMsg struct {
	ContentItemID int64
	Thumbnail     string
}
