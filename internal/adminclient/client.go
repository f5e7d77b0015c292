// Package adminclient is the Go client for the admin API, used by the
// terminal UI.
package adminclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/attila-kis/thumbnail-manager/internal/handlers"
	"github.com/attila-kis/thumbnail-manager/internal/models"
)

const defaultTimeout = 30 * time.Second

// APIError is a failure envelope returned by the admin API.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to a running thumbman server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an admin API client for the given server base URL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

type wireEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// FetchToken obtains the anti-forgery token every subsequent call
// carries. Call it once before other methods.
func (c *Client) FetchToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/admin-ajax/token", nil)
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := c.do(req, &data); err != nil {
		return err
	}
	if data.Token == "" {
		return fmt.Errorf("server issued an empty token")
	}
	c.token = data.Token
	return nil
}

// ListPosts returns all content items, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := c.postAction(ctx, url.Values{"action": {handlers.ActionListPosts}}, &items)
	return items, err
}

// SearchImages searches the provider through the server.
func (c *Client) SearchImages(ctx context.Context, query string) ([]models.ImageResult, error) {
	var results []models.ImageResult
	err := c.postAction(ctx, url.Values{
		"action": {handlers.ActionSearchImages},
		"query":  {query},
	}, &results)
	return results, err
}

// SetThumbnail ingests imageURL and assigns it as the item's featured
// image, returning the new thumbnail URL.
func (c *Client) SetThumbnail(ctx context.Context, contentItemID int64, imageURL, photographer string) (string, error) {
	var data struct {
		Thumbnail string `json:"thumbnail"`
	}
	err := c.postAction(ctx, url.Values{
		"action":        {handlers.ActionSetThumbnail},
		"contentItemId": {strconv.FormatInt(contentItemID, 10)},
		"imageUrl":      {imageURL},
		"photographer":  {photographer},
	}, &data)
	if err != nil {
		return "", err
	}
	return data.Thumbnail, nil
}

func (c *Client) postAction(ctx context.Context, form url.Values, out interface{}) error {
	form.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin-ajax",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("admin request", "action", form.Get("action"))

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env wireEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Error("admin response parse error", "status", resp.StatusCode, "err", err)
		return fmt.Errorf("failed to parse server response: %w", err)
	}

	if !env.Success {
		message := "request failed"
		if env.Error != nil && env.Error.Message != "" {
			message = env.Error.Message
		}
		return &APIError{Message: message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
