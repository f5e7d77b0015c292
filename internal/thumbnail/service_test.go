package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/attila-kis/thumbnail-manager/internal/ingest"
	"github.com/attila-kis/thumbnail-manager/internal/models"
	"github.com/attila-kis/thumbnail-manager/internal/store"
)

type fakeContentStore struct {
	items    []models.ContentItem
	featured map[int64]string
	failList bool
}

func newFakeContentStore(items ...models.ContentItem) *fakeContentStore {
	return &fakeContentStore{items: items, featured: make(map[int64]string)}
}

func (f *fakeContentStore) GetContentItems(ctx context.Context) ([]models.ContentItem, error) {
	if f.failList {
		return nil, errors.New("database locked")
	}
	out := make([]models.ContentItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeContentStore) GetFeaturedImageURL(ctx context.Context, id int64, rendition string) (string, error) {
	if !f.has(id) {
		return "", store.ErrNotFound
	}
	mediaID := f.featured[id]
	if mediaID == "" {
		return "", nil
	}
	return "/uploads/" + mediaID + ".jpg", nil
}

func (f *fakeContentStore) SetFeaturedImage(ctx context.Context, id int64, mediaID string) error {
	if !f.has(id) {
		return store.ErrNotFound
	}
	f.featured[id] = mediaID
	return nil
}

func (f *fakeContentStore) GetEditURL(id int64) string {
	return fmt.Sprintf("/edit?post=%d", id)
}

func (f *fakeContentStore) has(id int64) bool {
	for _, item := range f.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

type fakeMediaStore struct {
	known map[string]bool
}

func (f *fakeMediaStore) StoreFromFile(ctx context.Context, m store.NewMedia) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeMediaStore) GetImageURL(ctx context.Context, mediaID, rendition string) (string, error) {
	if !f.known[mediaID] {
		return "", store.ErrNotFound
	}
	return "/uploads/" + mediaID + ".jpg", nil
}

func (f *fakeMediaStore) Exists(ctx context.Context, mediaID string) (bool, error) {
	return f.known[mediaID], nil
}

type fakeIngester struct {
	media models.IngestedMedia
	err   error
	calls int
}

func (f *fakeIngester) Ingest(ctx context.Context, sourceURL string, attr ingest.Attribution) (models.IngestedMedia, error) {
	f.calls++
	if f.err != nil {
		return models.IngestedMedia{}, f.err
	}
	return f.media, nil
}

func item(id int64, title string) models.ContentItem {
	return models.ContentItem{ID: id, Title: title, CreatedAt: time.Now()}
}

func TestAssignValidation(t *testing.T) {
	content := newFakeContentStore(item(1, "post"))
	media := &fakeMediaStore{known: map[string]bool{"m1": true}}
	svc := NewService(content, media, &fakeIngester{}, nil)

	tests := []struct {
		name    string
		itemID  int64
		mediaID string
		wantErr error
	}{
		{name: "zero content item", itemID: 0, mediaID: "m1", wantErr: ErrInvalidContentItem},
		{name: "negative content item", itemID: -3, mediaID: "m1", wantErr: ErrInvalidContentItem},
		{name: "empty media id", itemID: 1, mediaID: "", wantErr: ErrInvalidMedia},
		{name: "unknown media id", itemID: 1, mediaID: "ghost", wantErr: ErrInvalidMedia},
		{name: "unknown content item", itemID: 42, mediaID: "m1", wantErr: ErrInvalidContentItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Assign(context.Background(), tt.itemID, tt.mediaID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			// A failed assign must not have mutated anything.
			if content.featured[1] != "" {
				t.Errorf("Featured image mutated on failed assign: %q", content.featured[1])
			}
		})
	}
}

func TestAssignSuccess(t *testing.T) {
	content := newFakeContentStore(item(1, "post"))
	media := &fakeMediaStore{known: map[string]bool{"m1": true}}
	svc := NewService(content, media, &fakeIngester{}, nil)

	thumb, err := svc.Assign(context.Background(), 1, "m1")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if thumb != "/uploads/m1.jpg" {
		t.Errorf("Unexpected thumbnail URL: %s", thumb)
	}
	if content.featured[1] != "m1" {
		t.Errorf("Featured image not set, got %q", content.featured[1])
	}
}

func TestAssignReplacesPriorReference(t *testing.T) {
	content := newFakeContentStore(item(1, "post"))
	media := &fakeMediaStore{known: map[string]bool{"m1": true, "m2": true}}
	svc := NewService(content, media, &fakeIngester{}, nil)

	if _, err := svc.Assign(context.Background(), 1, "m1"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if _, err := svc.Assign(context.Background(), 1, "m2"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if content.featured[1] != "m2" {
		t.Errorf("Expected m2 to replace m1, got %q", content.featured[1])
	}
}

func TestAssignFromURLShortCircuitsOnIngestFailure(t *testing.T) {
	content := newFakeContentStore(item(1, "post"))
	media := &fakeMediaStore{known: map[string]bool{}}
	ingester := &fakeIngester{err: ingest.ErrDownloadFailed}
	svc := NewService(content, media, ingester, nil)

	_, err := svc.AssignFromURL(context.Background(), 1, "https://images.example.com/x.jpg", ingest.Attribution{})
	if !errors.Is(err, ingest.ErrDownloadFailed) {
		t.Errorf("Expected download failure to propagate, got %v", err)
	}
	if content.featured[1] != "" {
		t.Errorf("Thumbnail must be unchanged after ingestion failure, got %q", content.featured[1])
	}
}

func TestAssignFromURLSuccess(t *testing.T) {
	content := newFakeContentStore(item(1, "post"))
	media := &fakeMediaStore{known: map[string]bool{"m9": true}}
	ingester := &fakeIngester{media: models.IngestedMedia{MediaID: "m9", SourceURL: "https://x", DisplayURL: "/uploads/m9.jpg"}}
	svc := NewService(content, media, ingester, nil)

	thumb, err := svc.AssignFromURL(context.Background(), 1, "https://x", ingest.Attribution{Name: "Jane"})
	if err != nil {
		t.Fatalf("AssignFromURL failed: %v", err)
	}
	if thumb != "/uploads/m9.jpg" {
		t.Errorf("Unexpected thumbnail: %s", thumb)
	}
	if ingester.calls != 1 {
		t.Errorf("Expected exactly one ingest call, got %d", ingester.calls)
	}
}

func TestAssignFromURLInvalidItemSkipsIngestion(t *testing.T) {
	ingester := &fakeIngester{}
	svc := NewService(newFakeContentStore(), &fakeMediaStore{}, ingester, nil)

	_, err := svc.AssignFromURL(context.Background(), 0, "https://x", ingest.Attribution{})
	if !errors.Is(err, ErrInvalidContentItem) {
		t.Errorf("Expected ErrInvalidContentItem, got %v", err)
	}
	if ingester.calls != 0 {
		t.Errorf("Ingestion must not run for an invalid item, got %d calls", ingester.calls)
	}
}

func TestListFillsThumbnails(t *testing.T) {
	content := newFakeContentStore(item(2, "with thumb"), item(1, "without thumb"))
	content.featured[2] = "m1"
	svc := NewService(content, &fakeMediaStore{known: map[string]bool{"m1": true}}, &fakeIngester{}, nil)

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].ThumbnailURL != "/uploads/m1.jpg" {
		t.Errorf("Expected thumbnail for item 2, got %q", items[0].ThumbnailURL)
	}
	if items[1].ThumbnailURL != "" {
		t.Errorf("Expected no thumbnail for item 1, got %q", items[1].ThumbnailURL)
	}
}

func TestListStoreUnavailable(t *testing.T) {
	content := newFakeContentStore()
	content.failList = true
	svc := NewService(content, &fakeMediaStore{}, &fakeIngester{}, nil)

	_, err := svc.List(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Expected ErrStoreUnavailable, got %v", err)
	}
}
