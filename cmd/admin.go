package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/attila-kis/thumbnail-manager/internal/adminclient"
	"github.com/attila-kis/thumbnail-manager/internal/config"
	"github.com/attila-kis/thumbnail-manager/internal/tui"
)

func newAdminCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Open the terminal admin UI",
		Long: `Opens the Thumbnail Manager admin UI against a running server.

Browse posts, search Pexels for candidate images, pick a size, and set
the result as a post's featured image.`,
		Example: `  # Connect to the local server
  thumbman admin

  # Connect to a remote server
  thumbman admin --server http://cms.example.com:8888`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.ServerURL = serverURL
			}

			client := adminclient.NewClient(cfg.ServerURL, nil)
			model := tui.NewModel(client, nil)

			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("admin UI failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "Server base URL (overrides config)")

	return cmd
}
