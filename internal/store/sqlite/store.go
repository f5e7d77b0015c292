// Package sqlite is the standalone implementation of the host store
// interfaces, backed by a single SQLite database plus an uploads
// directory for media files.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/attila-kis/thumbnail-manager/internal/models"
	"github.com/attila-kis/thumbnail-manager/internal/store"
	"github.com/attila-kis/thumbnail-manager/internal/store/sqlite/migrations"
	"github.com/google/uuid"
)

// Store implements store.ContentStore, store.MediaStore, and
// store.SettingsStore on one database.
type Store struct {
	db         *sql.DB
	uploadsDir string
	// editBase is prepended to item ids to form edit links,
	// e.g. "/edit?post=" + id.
	editBase string
}

// Options configures a Store.
type Options struct {
	DataDir    string // database location; defaults to ./data
	UploadsDir string // media files; defaults to <DataDir>/uploads
	EditBase   string // edit-link prefix; defaults to "/edit?post="
}

// NewStore opens (creating if needed) the database and uploads
// directory and applies pending migrations.
func NewStore(opts Options) (*Store, error) {
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}
	if opts.UploadsDir == "" {
		opts.UploadsDir = filepath.Join(opts.DataDir, "uploads")
	}
	if opts.EditBase == "" {
		opts.EditBase = "/edit?post="
	}

	if err := os.MkdirAll(opts.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(opts.UploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}

	dbPath := filepath.Join(opts.DataDir, "thumbman.db")
	// Pragmas go in the DSN so every pooled connection applies them.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		uploadsDir: opts.UploadsDir,
		editBase:   opts.EditBase,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UploadsDir returns the directory media files are served from.
func (s *Store) UploadsDir() string {
	return s.uploadsDir
}

func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ContentStore returns the content-item view of this store.
func (s *Store) ContentStore() store.ContentStore { return s }

// MediaStore returns the media view of this store.
func (s *Store) MediaStore() store.MediaStore { return s }

// SettingsStore returns the settings view of this store.
func (s *Store) SettingsStore() store.SettingsStore { return s }

// --- ContentStore ---

// GetContentItems returns all content items, newest first. Thumbnail
// URLs are not resolved here; callers compose GetFeaturedImageURL.
func (s *Store) GetContentItems(ctx context.Context) ([]models.ContentItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, created_at
		FROM content_items
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying content items: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		if err := rows.Scan(&item.ID, &item.Title, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning content item: %w", err)
		}
		item.EditLink = s.GetEditURL(item.ID)
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetFeaturedImageURL resolves the item's featured media to a serving
// URL, or "" when no featured image is set.
func (s *Store) GetFeaturedImageURL(ctx context.Context, id int64, rendition string) (string, error) {
	var mediaID sql.NullString
	row := s.db.QueryRowContext(ctx, "SELECT featured_media_id FROM content_items WHERE id = ?", id)
	if err := row.Scan(&mediaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("querying featured media: %w", err)
	}
	if !mediaID.Valid || mediaID.String == "" {
		return "", nil
	}
	return s.GetImageURL(ctx, mediaID.String, rendition)
}

// SetFeaturedImage re-points the item's featured-image reference.
func (s *Store) SetFeaturedImage(ctx context.Context, id int64, mediaID string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE content_items SET featured_media_id = ? WHERE id = ?", mediaID, id)
	if err != nil {
		return fmt.Errorf("setting featured image: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting featured image: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetEditURL returns the edit link for a content item.
func (s *Store) GetEditURL(id int64) string {
	return fmt.Sprintf("%s%d", s.editBase, id)
}

// CreateContentItem inserts a new item. Only the seed command uses
// this; the admin surface treats content as read-only.
func (s *Store) CreateContentItem(ctx context.Context, title string, createdAt time.Time) (int64, error) {
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO content_items (title, created_at) VALUES (?, ?)", title, createdAt)
	if err != nil {
		return 0, fmt.Errorf("creating content item: %w", err)
	}
	return res.LastInsertId()
}

// --- MediaStore ---

// StoreFromFile copies the downloaded artifact into the uploads
// directory and records a new media row. The temp file at m.TempPath is
// left to the caller to remove.
func (s *Store) StoreFromFile(ctx context.Context, m store.NewMedia) (string, error) {
	mediaID := uuid.NewString()

	ext := filepath.Ext(m.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	storedName := mediaID + ext
	destPath := filepath.Join(s.uploadsDir, storedName)

	if err := copyFile(m.TempPath, destPath); err != nil {
		return "", fmt.Errorf("storing media file: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media (id, filename, source_url, attribution, attribution_url)
		VALUES (?, ?, ?, ?, ?)`,
		mediaID, storedName, m.SourceURL, m.Attribution, m.AttributionURL)
	if err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("recording media: %w", err)
	}

	return mediaID, nil
}

// GetImageURL returns the serving path for a media object. The store
// keeps a single file per media object, so every rendition maps to the
// original.
func (s *Store) GetImageURL(ctx context.Context, mediaID, rendition string) (string, error) {
	var filename string
	row := s.db.QueryRowContext(ctx, "SELECT filename FROM media WHERE id = ?", mediaID)
	if err := row.Scan(&filename); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("querying media: %w", err)
	}
	return "/uploads/" + filename, nil
}

// Exists reports whether a media object is registered.
func (s *Store) Exists(ctx context.Context, mediaID string) (bool, error) {
	var one int
	row := s.db.QueryRowContext(ctx, "SELECT 1 FROM media WHERE id = ?", mediaID)
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("querying media: %w", err)
	}
	return true, nil
}

// --- SettingsStore ---

// Get returns the stored value for key, or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	row := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("querying setting: %w", err)
	}
	return value, nil
}

// Set stores or replaces the value for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("storing setting: %w", err)
	}
	return nil
}

// Delete removes the value for key. Deleting a missing key is not an
// error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting setting: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
