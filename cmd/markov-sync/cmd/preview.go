package cmd

import (
	"fmt"
	"os"

	"shottys-backend/services/inventory"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Scrapes and prints the aggregated records without writing to the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		creds, err := credentialsFromEnv()
		if err != nil {
			return err
		}

		scraper, err := newScraper(config)
		if err != nil {
			return err
		}

		service := inventory.NewService(scraper, inventory.Store{}, inventory.Options{
			Credentials:  creds,
			DashboardId:  config.Scraper.DashboardId,
			ItemId:       config.Scraper.ItemId,
			Owners:       config.Owners,
			AllowedAreas: config.AllowedAreas,
		})
		records, err := service.Scrape(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"key", "date", "item", "area", "qty",
			"actual_value", "actual_unit_cost", "gl_group", "type", "unit",
		})
		for _, r := range records {
			t.AppendRow(table.Row{
				r.Key, r.Date, r.Item, r.Area,
				fmt.Sprintf("%g", r.Qty),
				fmt.Sprintf("%g", r.ActualValue),
				fmt.Sprintf("%.4f", r.ActualUnitCost),
				r.GLGroup, r.Type, r.Unit,
			})
		}
		t.Render()
		return nil
	},
}
