package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thumbman",
		Short: "Browse posts and set their featured images from Pexels",
		Long: `Thumbnail Manager is an admin tool for content thumbnails.

It runs a small admin API server over the content and media stores, and a
terminal UI that searches the Pexels photo API and assigns a chosen image
as a post's featured image.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newSettingsCmd())

	return cmd
}
