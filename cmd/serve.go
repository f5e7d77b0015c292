package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/attila-kis/thumbnail-manager/internal/config"
	"github.com/attila-kis/thumbnail-manager/internal/handlers"
	"github.com/attila-kis/thumbnail-manager/internal/ingest"
	"github.com/attila-kis/thumbnail-manager/internal/pexels"
	"github.com/attila-kis/thumbnail-manager/internal/store/sqlite"
	"github.com/attila-kis/thumbnail-manager/internal/thumbnail"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin API server",
		Long: `Starts the Thumbnail Manager admin API on the specified port.

The server exposes the listPosts, searchImages and setThumbnail actions
used by the admin UI, and serves stored media under /uploads/.`,
		Example: `  # Start server on default port 8888
  thumbman serve

  # Start server on custom port
  thumbman serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			db, err := sqlite.NewStore(sqlite.Options{
				DataDir:    cfg.DataDir,
				UploadsDir: cfg.UploadsDir,
				EditBase:   cfg.EditBase,
			})
			if err != nil {
				return err
			}
			defer db.Close()

			ingester := ingest.NewService(db.MediaStore(), nil)
			thumbnails := thumbnail.NewService(db.ContentStore(), db.MediaStore(), ingester, nil)

			handler := handlers.New(handlers.Options{
				Thumbnails: thumbnails,
				Settings:   db.SettingsStore(),
				Provider: func(apiKey string) handlers.Searcher {
					return pexels.NewClient(cfg.Pexels.BaseURL, apiKey, nil)
				},
				PerPage:    cfg.Pexels.PerPage,
				UploadsDir: db.UploadsDir(),
			})

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/admin-ajax", handler.HandleAdmin)
			mux.HandleFunc("/admin-ajax/token", handler.HandleToken)
			mux.HandleFunc("/uploads/", handler.HandleUploads)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Thumbnail Manager admin API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")

	return cmd
}
