package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/attila-kis/thumbnail-manager/internal/models"
)

const (
	// DefaultBaseURL is the Pexels v1 API root.
	DefaultBaseURL = "https://api.pexels.com/v1"

	// DefaultPerPage mirrors the admin UI's result grid size.
	DefaultPerPage = 10
)

// Provider failure modes, distinguished so the UI can present an
// actionable message instead of a generic error.
var (
	ErrEmptyQuery  = errors.New("pexels: empty search query")
	ErrNoAPIKey    = errors.New("pexels: API key not configured")
	ErrNoResults   = errors.New("pexels: no photos matched the query")
	ErrBadResponse = errors.New("pexels: malformed provider response")
)

// Client searches the Pexels photo API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Pexels client. An empty baseURL selects the public
// API endpoint. The key may be empty; Search rejects the call before any
// network I/O in that case.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// searchResponse mirrors the Pexels /search payload.
type searchResponse struct {
	Photos []photo `json:"photos"`
}

type photo struct {
	ID           int64  `json:"id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Photographer string `json:"photographer"`
	URL          string `json:"photographer_url"`
	Src          struct {
		Original string `json:"original"`
		Large2x  string `json:"large2x"`
		Large    string `json:"large"`
		Medium   string `json:"medium"`
		Small    string `json:"small"`
		Tiny     string `json:"tiny"`
	} `json:"src"`
}

// Search queries the provider and maps every returned photo into the
// normalized result shape. A zero-photo response is reported as
// ErrNoResults so callers can distinguish it from transport failures.
func (c *Client) Search(ctx context.Context, query string, perPage int) ([]models.ImageResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	searchURL := fmt.Sprintf("%s/search?query=%s&per_page=%d", c.baseURL, url.QueryEscape(query), perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("pexels search", "query", query, "per_page", perPage)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Pexels: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrNoAPIKey
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("pexels search error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("pexels API returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if len(parsed.Photos) == 0 {
		return nil, ErrNoResults
	}

	results := make([]models.ImageResult, 0, len(parsed.Photos))
	for _, p := range parsed.Photos {
		results = append(results, mapPhoto(p))
	}
	return results, nil
}

// mapPhoto converts a provider photo into the normalized shape. Size
// slots the provider left empty are dropped rather than defaulted.
func mapPhoto(p photo) models.ImageResult {
	sizes := make(map[string]string, 5)
	for label, u := range map[string]string{
		models.SizeSmall:    p.Src.Small,
		models.SizeMedium:   p.Src.Medium,
		models.SizeLarge:    p.Src.Large,
		models.SizeLarge2x:  p.Src.Large2x,
		models.SizeOriginal: p.Src.Original,
	} {
		if u != "" {
			sizes[label] = u
		}
	}

	thumb := p.Src.Tiny
	if thumb == "" {
		thumb = p.Src.Small
	}

	return models.ImageResult{
		ID:              p.ID,
		Thumbnail:       thumb,
		Sizes:           sizes,
		Photographer:    p.Photographer,
		PhotographerURL: p.URL,
		Width:           p.Width,
		Height:          p.Height,
	}
}
