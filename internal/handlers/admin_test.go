package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/attila-kis/thumbnail-manager/internal/ingest"
	"github.com/attila-kis/thumbnail-manager/internal/models"
	"github.com/attila-kis/thumbnail-manager/internal/pexels"
	"github.com/attila-kis/thumbnail-manager/internal/store"
	"github.com/attila-kis/thumbnail-manager/internal/thumbnail"
)

type fakeThumbnails struct {
	items     []models.ContentItem
	listErr   error
	assignErr error
	assigned  []int64
}

func (f *fakeThumbnails) List(ctx context.Context) ([]models.ContentItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeThumbnails) AssignFromURL(ctx context.Context, contentItemID int64, sourceURL string, attr ingest.Attribution) (string, error) {
	if f.assignErr != nil {
		return "", f.assignErr
	}
	f.assigned = append(f.assigned, contentItemID)
	return "/uploads/new-thumb.jpg", nil
}

type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (f *fakeSettings) Set(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

func (f *fakeSettings) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}

type fakeSearcher struct {
	apiKey  string
	results []models.ImageResult
	err     error
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, perPage int) ([]models.ImageResult, error) {
	f.calls++
	if f.apiKey == "" {
		return nil, pexels.ErrNoAPIKey
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type testEnv struct {
	handler    *Handler
	thumbnails *fakeThumbnails
	settings   *fakeSettings
	searcher   *fakeSearcher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		thumbnails: &fakeThumbnails{},
		settings:   &fakeSettings{values: map[string]string{store.APIKeySetting: "key"}},
		searcher:   &fakeSearcher{},
	}
	env.handler = New(Options{
		Thumbnails: env.thumbnails,
		Settings:   env.settings,
		Provider: func(apiKey string) Searcher {
			env.searcher.apiKey = apiKey
			return env.searcher
		},
	})
	return env
}

func (e *testEnv) post(t *testing.T, form url.Values) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin-ajax", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.handler.HandleAdmin(rec, req)

	var env envelope
	env.Data = &json.RawMessage{}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return rec, env
}

func (e *testEnv) validForm(action string) url.Values {
	return url.Values{
		"action": {action},
		"token":  {e.handler.tokens.Issue()},
	}
}

func TestAdminRejectsBadToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "unknown token", token: "forged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			form := url.Values{"action": {ActionListPosts}}
			if tt.token != "" {
				form.Set("token", tt.token)
			}

			rec, resp := env.post(t, form)
			if rec.Code != http.StatusForbidden {
				t.Errorf("Expected 403, got %d", rec.Code)
			}
			if resp.Success {
				t.Error("Expected failure envelope")
			}
			// No handler logic may run after the auth rejection.
			if env.searcher.calls != 0 || len(env.thumbnails.assigned) != 0 {
				t.Error("Handler logic ran despite rejected token")
			}
		})
	}
}

func TestAdminRejectsWrongMethod(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodGet, "/admin-ajax", nil)
	rec := httptest.NewRecorder()
	env.handler.HandleAdmin(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestAdminUnknownAction(t *testing.T) {
	env := newTestEnv()
	form := env.validForm("dropTables")
	rec, resp := env.post(t, form)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if resp.Success {
		t.Error("Expected failure envelope")
	}
}

func TestListPosts(t *testing.T) {
	env := newTestEnv()
	env.thumbnails.items = []models.ContentItem{
		{ID: 2, Title: "newest", ThumbnailURL: "/uploads/a.jpg", EditLink: "/edit?post=2"},
		{ID: 1, Title: "older", EditLink: "/edit?post=1"},
	}

	_, resp := env.post(t, env.validForm(ActionListPosts))
	if !resp.Success {
		t.Fatalf("Expected success, got %+v", resp.Error)
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(*resp.Data.(*json.RawMessage), &items); err != nil {
		t.Fatalf("decoding items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	// Items without a featured image omit the thumbnail field entirely.
	if _, ok := items[1]["thumbnail"]; ok {
		t.Error("Expected thumbnail to be absent, not empty")
	}
	if items[0]["thumbnail"] != "/uploads/a.jpg" {
		t.Errorf("Unexpected thumbnail: %v", items[0]["thumbnail"])
	}
}

func TestListPostsStoreUnavailable(t *testing.T) {
	env := newTestEnv()
	env.thumbnails.listErr = thumbnail.ErrStoreUnavailable

	_, resp := env.post(t, env.validForm(ActionListPosts))
	if resp.Success {
		t.Error("Expected failure envelope")
	}
	if resp.Error == nil || resp.Error.Message == "" {
		t.Error("Expected an error message")
	}
}

func TestSearchImages(t *testing.T) {
	env := newTestEnv()
	env.searcher.results = []models.ImageResult{
		{ID: 7, Thumbnail: "t.jpg", Sizes: map[string]string{"medium": "m.jpg"}, Photographer: "Jane"},
	}

	form := env.validForm(ActionSearchImages)
	form.Set("query", "mountains")
	_, resp := env.post(t, form)
	if !resp.Success {
		t.Fatalf("Expected success, got %+v", resp.Error)
	}

	var results []models.ImageResult
	if err := json.Unmarshal(*resp.Data.(*json.RawMessage), &results); err != nil {
		t.Fatalf("decoding results: %v", err)
	}
	if len(results) != 1 || results[0].Photographer != "Jane" {
		t.Errorf("Unexpected results: %+v", results)
	}
}

func TestSearchImagesEmptyQuery(t *testing.T) {
	env := newTestEnv()
	form := env.validForm(ActionSearchImages)
	form.Set("query", "   ")

	rec, resp := env.post(t, form)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if resp.Success {
		t.Error("Expected failure envelope")
	}
	if env.searcher.calls != 0 {
		t.Errorf("Expected no provider call, got %d", env.searcher.calls)
	}
}

func TestSearchImagesNoAPIKey(t *testing.T) {
	env := newTestEnv()
	delete(env.settings.values, store.APIKeySetting)

	form := env.validForm(ActionSearchImages)
	form.Set("query", "mountains")
	_, resp := env.post(t, form)
	if resp.Success {
		t.Error("Expected failure envelope")
	}
	if !strings.Contains(resp.Error.Message, "API key") {
		t.Errorf("Expected an API key message, got %q", resp.Error.Message)
	}
}

func TestSearchImagesNoResults(t *testing.T) {
	env := newTestEnv()
	env.searcher.err = pexels.ErrNoResults

	form := env.validForm(ActionSearchImages)
	form.Set("query", "zzzz")
	_, resp := env.post(t, form)
	if resp.Success {
		t.Error("Expected failure envelope")
	}
	if !strings.Contains(resp.Error.Message, "different search") {
		t.Errorf("Expected a try-different-search message, got %q", resp.Error.Message)
	}
}

func TestSetThumbnail(t *testing.T) {
	env := newTestEnv()

	form := env.validForm(ActionSetThumbnail)
	form.Set("contentItemId", "3")
	form.Set("imageUrl", "https://images.example.com/a.jpg")
	form.Set("photographer", "Jane")

	_, resp := env.post(t, form)
	if !resp.Success {
		t.Fatalf("Expected success, got %+v", resp.Error)
	}

	var data map[string]string
	if err := json.Unmarshal(*resp.Data.(*json.RawMessage), &data); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if data["thumbnail"] != "/uploads/new-thumb.jpg" {
		t.Errorf("Unexpected thumbnail: %q", data["thumbnail"])
	}
	if len(env.thumbnails.assigned) != 1 || env.thumbnails.assigned[0] != 3 {
		t.Errorf("Unexpected assignment calls: %v", env.thumbnails.assigned)
	}
}

func TestSetThumbnailValidation(t *testing.T) {
	tests := []struct {
		name     string
		itemID   string
		imageURL string
	}{
		{name: "missing id", itemID: "", imageURL: "https://x/a.jpg"},
		{name: "zero id", itemID: "0", imageURL: "https://x/a.jpg"},
		{name: "garbage id", itemID: "abc", imageURL: "https://x/a.jpg"},
		{name: "missing url", itemID: "3", imageURL: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			form := env.validForm(ActionSetThumbnail)
			form.Set("contentItemId", tt.itemID)
			form.Set("imageUrl", tt.imageURL)

			rec, resp := env.post(t, form)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			if resp.Success {
				t.Error("Expected failure envelope")
			}
			if len(env.thumbnails.assigned) != 0 {
				t.Error("Assignment ran despite invalid parameters")
			}
		})
	}
}

func TestSetThumbnailDownloadFailure(t *testing.T) {
	env := newTestEnv()
	env.thumbnails.assignErr = ingest.ErrDownloadFailed

	form := env.validForm(ActionSetThumbnail)
	form.Set("contentItemId", "3")
	form.Set("imageUrl", "https://images.example.com/gone.jpg")

	_, resp := env.post(t, form)
	if resp.Success {
		t.Error("Expected failure envelope")
	}
	if !strings.Contains(resp.Error.Message, "download") {
		t.Errorf("Expected a download message, got %q", resp.Error.Message)
	}
}
