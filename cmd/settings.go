package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attila-kis/thumbnail-manager/internal/config"
	"github.com/attila-kis/thumbnail-manager/internal/store"
	"github.com/attila-kis/thumbnail-manager/internal/store/sqlite"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage Thumbnail Manager settings",
	}

	cmd.AddCommand(newSetKeyCmd())
	cmd.AddCommand(newGetKeyCmd())
	cmd.AddCommand(newDeleteKeyCmd())

	return cmd
}

func openSettings() (*sqlite.Store, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(sqlite.Options{
		DataDir:    cfg.DataDir,
		UploadsDir: cfg.UploadsDir,
		EditBase:   cfg.EditBase,
	})
}

func newSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <api-key>",
		Short: "Store the Pexels API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openSettings()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SettingsStore().Set(cmd.Context(), store.APIKeySetting, args[0]); err != nil {
				return err
			}
			fmt.Println("Pexels API key saved")
			return nil
		},
	}
}

func newGetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-key",
		Short: "Show the stored Pexels API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openSettings()
			if err != nil {
				return err
			}
			defer db.Close()

			key, err := db.SettingsStore().Get(cmd.Context(), store.APIKeySetting)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no Pexels API key configured")
				}
				return err
			}
			fmt.Println(key)
			return nil
		},
	}
}

func newDeleteKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-key",
		Short: "Remove the stored Pexels API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openSettings()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SettingsStore().Delete(cmd.Context(), store.APIKeySetting); err != nil {
				return err
			}
			fmt.Println("Pexels API key removed")
			return nil
		},
	}
}
