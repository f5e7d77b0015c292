package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/attila-kis/thumbnail-manager/internal/ingest"
	"github.com/attila-kis/thumbnail-manager/internal/pexels"
	"github.com/attila-kis/thumbnail-manager/internal/store"
	"github.com/attila-kis/thumbnail-manager/internal/thumbnail"
)

// Admin API action names.
const (
	ActionListPosts    = "listPosts"
	ActionSearchImages = "searchImages"
	ActionSetThumbnail = "setThumbnail"
)

// The admin surface dispatches a closed set of typed request variants.
// Parameters are bound and validated once, at the parse step.
type (
	listPostsRequest struct{}

	searchImagesRequest struct {
		Query string
	}

	setThumbnailRequest struct {
		ContentItemID int64
		ImageURL      string
		Photographer  string
	}
)

// HandleAdmin serves POST /admin-ajax. Each request passes through
// authorize → validate → execute → respond and stops at the first
// failing step.
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.writeFailure(w, http.StatusBadRequest, "Malformed request")
		return
	}

	if !h.tokens.Valid(r.PostFormValue("token")) {
		h.logger.Warn("Rejected admin request with bad token", "action", r.PostFormValue("action"))
		h.writeFailure(w, http.StatusForbidden, "Invalid or missing security token")
		return
	}

	req, err := parseAction(r)
	if err != nil {
		h.writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	switch req := req.(type) {
	case listPostsRequest:
		h.listPosts(w, r)
	case searchImagesRequest:
		h.searchImages(w, r, req)
	case setThumbnailRequest:
		h.setThumbnail(w, r, req)
	}
}

// parseAction binds the form into one of the typed request variants.
func parseAction(r *http.Request) (interface{}, error) {
	switch action := r.PostFormValue("action"); action {
	case ActionListPosts:
		return listPostsRequest{}, nil

	case ActionSearchImages:
		query := strings.TrimSpace(r.PostFormValue("query"))
		if query == "" {
			return nil, errors.New("Please enter a search query")
		}
		return searchImagesRequest{Query: query}, nil

	case ActionSetThumbnail:
		id, err := strconv.ParseInt(r.PostFormValue("contentItemId"), 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("A valid content item id is required")
		}
		imageURL := strings.TrimSpace(r.PostFormValue("imageUrl"))
		if imageURL == "" {
			return nil, errors.New("An image URL is required")
		}
		return setThumbnailRequest{
			ContentItemID: id,
			ImageURL:      imageURL,
			Photographer:  r.PostFormValue("photographer"),
		}, nil

	default:
		return nil, fmt.Errorf("Unknown action %q", action)
	}
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	items, err := h.thumbnails.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list posts", "err", err)
		h.writeFailure(w, http.StatusOK, "Error loading posts")
		return
	}
	h.writeSuccess(w, items)
}

func (h *Handler) searchImages(w http.ResponseWriter, r *http.Request, req searchImagesRequest) {
	apiKey, err := h.settings.Get(r.Context(), store.APIKeySetting)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("Failed to read provider credential", "err", err)
		h.writeFailure(w, http.StatusOK, "Error searching images")
		return
	}

	results, err := h.provider(apiKey).Search(r.Context(), req.Query, h.perPage)
	if err != nil {
		h.logger.Error("Image search failed", "query", req.Query, "err", err)
		h.writeFailure(w, http.StatusOK, searchErrorMessage(err))
		return
	}
	h.writeSuccess(w, results)
}

func (h *Handler) setThumbnail(w http.ResponseWriter, r *http.Request, req setThumbnailRequest) {
	thumbURL, err := h.thumbnails.AssignFromURL(r.Context(), req.ContentItemID, req.ImageURL, ingest.Attribution{
		Name: req.Photographer,
	})
	if err != nil {
		h.logger.Error("Failed to set thumbnail",
			"content_item", req.ContentItemID, "image_url", req.ImageURL, "err", err)
		h.writeFailure(w, http.StatusOK, assignErrorMessage(err))
		return
	}
	h.writeSuccess(w, map[string]string{"thumbnail": thumbURL})
}

// searchErrorMessage maps provider failures to the actionable messages
// the UI shows. Reason codes stay in the server log.
func searchErrorMessage(err error) string {
	switch {
	case errors.Is(err, pexels.ErrEmptyQuery):
		return "Please enter a search query"
	case errors.Is(err, pexels.ErrNoAPIKey):
		return "Pexels API key is not configured. Set it with: thumbman settings set-key"
	case errors.Is(err, pexels.ErrNoResults):
		return "No images found. Try a different search"
	case errors.Is(err, pexels.ErrBadResponse):
		return "The image provider returned an unexpected response"
	default:
		return "Error connecting to the image provider"
	}
}

func assignErrorMessage(err error) string {
	switch {
	case errors.Is(err, thumbnail.ErrInvalidContentItem):
		return "That post no longer exists"
	case errors.Is(err, thumbnail.ErrInvalidMedia):
		return "The selected image is no longer available"
	case errors.Is(err, ingest.ErrInvalidURL), errors.Is(err, ingest.ErrDownloadFailed):
		return "Failed to download the selected image"
	case errors.Is(err, ingest.ErrStorageFailed):
		return "Failed to save the image to the media library"
	default:
		return "Failed to set thumbnail"
	}
}
