package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/attila-kis/thumbnail-manager/internal/config"
	"github.com/attila-kis/thumbnail-manager/internal/store/sqlite"
)

// seedFile is the YAML shape the seed command reads.
type seedFile struct {
	Posts []seedPost `yaml:"posts"`
}

type seedPost struct {
	Title     string    `yaml:"title"`
	CreatedAt time.Time `yaml:"created_at"`
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <posts.yaml>",
		Short: "Load demo posts into the content store",
		Long: `Loads content items from a YAML file into the local content store so
the admin UI has posts to manage.

The file lists posts with a title and an optional created_at timestamp:

  posts:
    - title: "Hello world"
    - title: "Older post"
      created_at: 2024-01-02T00:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading seed file: %w", err)
			}

			var seed seedFile
			if err := yaml.Unmarshal(data, &seed); err != nil {
				return fmt.Errorf("parsing seed file: %w", err)
			}
			if len(seed.Posts) == 0 {
				return fmt.Errorf("seed file %s contains no posts", args[0])
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

			for _, post := range seed.Posts {
				id, err := db.CreateContentItem(cmd.Context(), post.Title, post.CreatedAt)
				if err != nil {
					return err
				}
				slog.Info("Seeded post", "id", id, "title", post.Title)
			}

			slog.Info("Seed complete", "posts", len(seed.Posts))
			return nil
		},
	}

	return cmd
}
