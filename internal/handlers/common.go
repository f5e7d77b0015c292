package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/attila-kis/thumbnail-manager/internal/ingest"
	"github.com/attila-kis/thumbnail-manager/internal/models"
	"github.com/attila-kis/thumbnail-manager/internal/pexels"
	"github.com/attila-kis/thumbnail-manager/internal/store"
)

// Searcher is the provider-client slice the admin surface depends on.
type Searcher interface {
	Search(ctx context.Context, query string, perPage int) ([]models.ImageResult, error)
}

// ProviderFactory builds a provider client for the credential read from
// the settings store on the current request.
type ProviderFactory func(apiKey string) Searcher

// ThumbnailService is the slice of the thumbnail service the admin
// surface calls.
type ThumbnailService interface {
	List(ctx context.Context) ([]models.ContentItem, error)
	AssignFromURL(ctx context.Context, contentItemID int64, sourceURL string, attr ingest.Attribution) (string, error)
}

// Options configures a Handler.
type Options struct {
	Thumbnails ThumbnailService
	Settings   store.SettingsStore
	Provider   ProviderFactory
	PerPage    int
	UploadsDir string
	Logger     *slog.Logger
}

// Handler serves the admin API.
type Handler struct {
	thumbnails ThumbnailService
	settings   store.SettingsStore
	provider   ProviderFactory
	perPage    int
	uploadsDir string
	tokens     *TokenStore
	logger     *slog.Logger
}

// New creates a Handler.
func New(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PerPage <= 0 {
		opts.PerPage = pexels.DefaultPerPage
	}
	if opts.Provider == nil {
		logger := opts.Logger
		opts.Provider = func(apiKey string) Searcher {
			return pexels.NewClient("", apiKey, logger)
		}
	}
	return &Handler{
		thumbnails: opts.Thumbnails,
		settings:   opts.Settings,
		provider:   opts.Provider,
		perPage:    opts.PerPage,
		uploadsDir: opts.UploadsDir,
		tokens:     NewTokenStore(),
		logger:     opts.Logger,
	}
}

// envelope is the uniform response wrapper of the admin API.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (h *Handler) writeFailure(w http.ResponseWriter, status int, message string) {
	h.writeEnvelope(w, status, envelope{Success: false, Error: &apiError{Message: message}})
}

func (h *Handler) writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.logger.Error("Unable to encode JSON response", "err", err)
	}
}
