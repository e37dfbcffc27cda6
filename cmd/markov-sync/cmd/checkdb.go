package cmd

import (
	"fmt"

	"shottys-backend/services/inventory"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkDbCmd)
}

var checkDbCmd = &cobra.Command{
	Use:   "check-db",
	Short: "Verifies that DATABASE_URL points at a reachable server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		databaseUrl, err := databaseUrlFromEnv()
		if err != nil {
			return err
		}

		store, err := inventory.OpenStore("postgres", databaseUrl)
		if err != nil {
			return err
		}
		defer store.Close()

		version, err := store.Version(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Connected to: %s\n", version)
		return nil
	},
}
