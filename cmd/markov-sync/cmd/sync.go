package cmd

import (
	"fmt"
	"log/slog"

	"shottys-backend/services/inventory"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Runs the scrape, transform and upsert pipeline once.",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		creds, err := credentialsFromEnv()
		if err != nil {
			return err
		}
		databaseUrl, err := databaseUrlFromEnv()
		if err != nil {
			return err
		}

		// fail on an unreachable database before bothering the dashboard
		store, err := inventory.OpenStore("postgres", databaseUrl)
		if err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		defer store.Close()

		scraper, err := newScraper(config)
		if err != nil {
			return err
		}

		service := inventory.NewService(scraper, store, inventory.Options{
			Credentials:  creds,
			DashboardId:  config.Scraper.DashboardId,
			ItemId:       config.Scraper.ItemId,
			Owners:       config.Owners,
			AllowedAreas: config.AllowedAreas,
		})
		written, err := service.Run(cmd.Context())
		if err != nil {
			return err
		}

		slog.Info("sync complete", "records_written", written)
		return nil
	},
}
