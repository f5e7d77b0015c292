// Package ingest downloads external images and registers them with the
// media store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/attila-kis/thumbnail-manager/internal/models"
	"github.com/attila-kis/thumbnail-manager/internal/store"
)

// Ingestion failure modes.
var (
	ErrInvalidURL     = errors.New("ingest: source URL must be absolute")
	ErrDownloadFailed = errors.New("ingest: download failed")
	ErrStorageFailed  = errors.New("ingest: storage failed")
)

// Images under this size are almost certainly error pages or
// placeholders rather than photos.
const minImageBytes = 1000

// Attribution carries photographer credit through ingestion.
type Attribution struct {
	Name       string
	ProfileURL string
}

// Service downloads an image and hands it to the media store. The two
// steps commit independently: a storage failure after a successful
// download removes the temporary artifact and leaves no media object
// behind.
type Service struct {
	media      store.MediaStore
	httpClient *http.Client
	logger     *slog.Logger
}

// NewService creates an ingestion service.
func NewService(media store.MediaStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		media: media,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Ingest downloads sourceURL and creates a new media object. Calling it
// twice with the same URL creates two distinct media objects; there is
// no retry and no dedupe.
func (s *Service) Ingest(ctx context.Context, sourceURL string, attr Attribution) (models.IngestedMedia, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil || !parsed.IsAbs() {
		return models.IngestedMedia{}, ErrInvalidURL
	}

	tmpPath, err := s.download(ctx, sourceURL)
	if err != nil {
		return models.IngestedMedia{}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer os.Remove(tmpPath)

	mediaID, err := s.media.StoreFromFile(ctx, store.NewMedia{
		TempPath:       tmpPath,
		Filename:       filenameFromURL(parsed),
		SourceURL:      sourceURL,
		Attribution:    attr.Name,
		AttributionURL: attr.ProfileURL,
	})
	if err != nil {
		return models.IngestedMedia{}, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	displayURL, err := s.media.GetImageURL(ctx, mediaID, models.SizeMedium)
	if err != nil {
		return models.IngestedMedia{}, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	s.logger.Info("Image ingested", "media_id", mediaID, "source", sourceURL, "photographer", attr.Name)

	return models.IngestedMedia{
		MediaID:    mediaID,
		SourceURL:  sourceURL,
		DisplayURL: displayURL,
	}, nil
}

// download fetches the image into a temp file and returns its path.
func (s *Service) download(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	if len(imageData) < minImageBytes {
		return "", fmt.Errorf("image too small (likely placeholder), size: %d bytes", len(imageData))
	}

	tmp, err := os.CreateTemp("", "thumbman-ingest-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(imageData); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return tmp.Name(), nil
}

func filenameFromURL(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || !strings.Contains(name, ".") {
		return "image.jpg"
	}
	return name
}
